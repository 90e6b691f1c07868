package build

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/cmd/util"
	"github.com/f1insight/frameforge/pkg/model"
)

var (
	sessionTypeArg string
	forceRefresh   bool
)

func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <year> <round>",
		Short: "build and cache the frame sequence for a session",
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
			return runBuild(cmd, year, round)
		},
	}
	cmd.Flags().StringVarP(&sessionTypeArg, "session", "s", "R",
		"session type (R, Q, S, SQ)")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false,
		"recompute even if a cached frame sequence exists")
	return cmd
}

func runBuild(cmd *cobra.Command, year, round int) error {
	if err := util.SetupLogger(); err != nil {
		return err
	}
	sessionType, err := model.ParseSessionType(sessionTypeArg)
	if err != nil {
		return err
	}
	srv, store, err := util.NewFrameService()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	meta, err := srv.ResolveSession(ctx, year, round, sessionType)
	if err != nil {
		return err
	}
	log.Info("session resolved",
		log.String("event", meta.EventName),
		log.String("session", meta.Identity.Key()),
		log.Time("start", meta.StartTime))

	seq, err := srv.GetFrameSequence(ctx, meta, forceRefresh)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames, %d laps\n",
		meta.EventName, len(seq.Frames), seq.TotalLaps)
	return nil
}
