package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xzhHas/contentflow/internal/config"
	"github.com/xzhHas/contentflow/internal/mq"
	"github.com/xzhHas/contentflow/types"
	"go.uber.org/multierr"
)

func newPublishCmd() *cobra.Command {
	var (
		kind   string
		action string
		id     int64
		slug   string
		scope  string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a test notification to the updated_content exchange",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			n := types.Notification{
				Action: types.Action(action),
				Kind:   types.EntityKind(kind),
				Slug:   slug,
			}
			if n.Action != types.Update && n.Action != types.Delete {
				return fmt.Errorf("%w: action must be U or D", types.ErrConfiguration)
			}
			if cmd.Flags().Changed("id") {
				n.ID = &id
			}

			url, err := config.ResolveBrokerURL(brokerURL, settingsPath)
			if err != nil {
				return err
			}
			conn, err := mq.Dial(url, mq.DialOptions{ConnectionName: "contentflow:publish", Timeout: 10 * time.Second})
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, conn.Close()) }()
			ch, err := conn.Channel()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := mq.NewPublisher(ch, scope).Publish(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s %s %v\n", n.Action, n.Kind, n.Keys())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(types.ContentItem), "content_item or collection")
	cmd.Flags().StringVar(&action, "action", string(types.Update), "U (update) or D (delete)")
	cmd.Flags().Int64Var(&id, "id", 0, "entity id")
	cmd.Flags().StringVar(&slug, "slug", "", "entity slug")
	cmd.Flags().StringVar(&scope, "scope", "", "product affiliate code")
	return cmd
}
