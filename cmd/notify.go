package cmd

import (
	"context"
	"fmt"

	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/frahmantamala/campus-ops/internal/notification"
	"github.com/spf13/cobra"
)

var (
	notifyEmails   []string
	notifyAll      bool
	notifyTitle    string
	notifyCategory string
)

var notifyCmd = &cobra.Command{
	Use:   "notify [message]",
	Short: "Send a notification to users",
	Long:  `Send an in-app notification (and an e-mail copy when mail is configured) to the listed users, or to everyone with --all.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendNotification(args[0])
	},
}

func sendNotification(message string) error {
	if !notifyAll && len(notifyEmails) == 0 {
		return fmt.Errorf("pass --email at least once, or --all")
	}
	if !notification.KnownCategory(notifyCategory) {
		return fmt.Errorf("unknown category %q", notifyCategory)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer app.Close()

	ctx := context.Background()
	q := app.Gorm.WithContext(ctx).Model(&userDatamodel.User{})
	if !notifyAll {
		q = q.Where("email IN ?", notifyEmails)
	}
	var ids []string
	if err := q.Order("created_at").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to look up users: %w", err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no matching users")
	}

	emitter := events.NewEmitter(app.Bus, app.Logger)
	for _, id := range ids {
		emitter.Notify(ctx, id, notifyTitle, message, notifyCategory)
	}
	app.Logger.Info("notifications sent", "recipients", len(ids), "category", notifyCategory)
	return nil
}

func init() {
	notifyCmd.Flags().StringSliceVarP(&notifyEmails, "email", "e", nil, "recipient e-mail (repeatable)")
	notifyCmd.Flags().BoolVar(&notifyAll, "all", false, "send to every user")
	notifyCmd.Flags().StringVarP(&notifyTitle, "title", "t", "Announcement", "notification title")
	notifyCmd.Flags().StringVar(&notifyCategory, "category", events.CategorySystem, "Events, Bookings or System")

	rootCmd.AddCommand(notifyCmd)
}
