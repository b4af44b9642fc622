package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/ctxutil"
	"github.com/example/blotter/internal/wire"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Read notifications and work the SMS queue",
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications for the acting user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		actor := ctxutil.ActorFromContext(ctx)
		if actor.UserID == nil {
			return fmt.Errorf("actor %q has no user account", actor.Name)
		}
		unread, _ := cmd.Flags().GetBool("unread")
		list, err := wire.NotificationService().ListForUser(ctx, *actor.UserID, unread)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range list {
			marker := " "
			if !n.IsRead {
				marker = color.New(color.FgHiMagenta).Sprint("●")
			}
			fmt.Printf("%s %d  %s  %s: %s\n", marker, n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Title, n.Message)
		}
		return nil
	},
}

var notifyReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification of the acting user as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		actor := ctxutil.ActorFromContext(ctx)
		if actor.UserID == nil {
			return fmt.Errorf("actor %q has no user account", actor.Name)
		}
		n, err := wire.NotificationService().MarkAllRead(ctx, *actor.UserID)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Marked %d notification(s) as read\n", n)
		return nil
	},
}

var notifySmsPendingCmd = &cobra.Command{
	Use:   "sms-pending",
	Short: "List queued SMS messages, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		list, err := wire.NotificationService().ListPendingSms(NewContext(), limit)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("SMS queue is empty.")
			return nil
		}
		for _, s := range list {
			fmt.Printf("%d  %s  %s: %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.RecipientNumber, s.Message)
		}
		return nil
	},
}

var notifySmsSentCmd = &cobra.Command{
	Use:   "sms-sent [sms-id]",
	Short: "Record that the gateway accepted a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("sms", args[0])
		if err != nil {
			return err
		}
		failed, _ := cmd.Flags().GetBool("failed")
		if failed {
			err = wire.NotificationService().MarkSmsFailed(NewContext(), id)
		} else {
			err = wire.NotificationService().MarkSmsSent(NewContext(), id, time.Time{})
		}
		if err != nil {
			return err
		}
		fmt.Printf("✓ SMS %d updated\n", id)
		return nil
	},
}

var notifySmsReplyCmd = &cobra.Command{
	Use:   "sms-reply [sms-id] [message]",
	Short: "Store a reply received for a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("sms", args[0])
		if err != nil {
			return err
		}
		if err := wire.NotificationService().RecordSmsReply(NewContext(), id, args[1], time.Time{}); err != nil {
			return err
		}
		fmt.Printf("✓ Reply stored for SMS %d\n", id)
		return nil
	},
}

func init() {
	notifyListCmd.Flags().Bool("unread", false, "Only unread notifications")
	notifySmsPendingCmd.Flags().Int("limit", 0, "Maximum number of messages")
	notifySmsSentCmd.Flags().Bool("failed", false, "Record a delivery failure instead")

	notifyCmd.AddCommand(notifyListCmd)
	notifyCmd.AddCommand(notifyReadAllCmd)
	notifyCmd.AddCommand(notifySmsPendingCmd)
	notifyCmd.AddCommand(notifySmsSentCmd)
	notifyCmd.AddCommand(notifySmsReplyCmd)
}

// NotifyCmd returns the notify command
func NotifyCmd() *cobra.Command {
	return notifyCmd
}
