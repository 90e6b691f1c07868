package invalidate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/f1insight/frameforge/pkg/cache"
	"github.com/f1insight/frameforge/pkg/cmd/util"
	"github.com/f1insight/frameforge/pkg/config"
	"github.com/f1insight/frameforge/pkg/model"
)

var sessionTypeArg string

func NewInvalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate <year> <round>",
		Short: "drop cached frame sequences for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			round, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid round %q", args[1])
			}
			return runInvalidate(year, round)
		},
	}
	cmd.Flags().StringVarP(&sessionTypeArg, "session", "s", "R",
		"session type (R, Q, S, SQ)")
	return cmd
}

func runInvalidate(year, round int) error {
	if err := util.SetupLogger(); err != nil {
		return err
	}
	sessionType, err := model.ParseSessionType(sessionTypeArg)
	if err != nil {
		return err
	}
	store, err := cache.NewBoltStore(config.CacheFile)
	if err != nil {
		return err
	}
	defer store.Close()
	id := model.SessionIdentity{Year: year, Round: round, Type: sessionType}
	return store.Invalidate(context.Background(), id)
}
