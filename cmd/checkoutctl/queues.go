package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mentora/checkout/config"
	"github.com/mentora/checkout/pkg/queue"
	"github.com/mentora/checkout/pkg/redis"
)

func queuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queues",
		Short: "Show the depth of the notification, archive and dead-letter queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zap.NewNop())
			if err != nil {
				return err
			}
			defer rdb.Close()
			depth, err := queue.NewQueue(rdb.Client, zap.NewNop()).Depth(ctx)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(depth))
			for name := range depth {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %d\n", name, depth[name])
			}
			return nil
		},
	}
}
