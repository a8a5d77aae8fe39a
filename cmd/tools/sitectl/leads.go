// cmd/tools/sitectl/leads.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"site-builder/internal/models"
	slotgenerator "site-builder/internal/services/booking/slot-generator"
	submitlead "site-builder/internal/services/leads/submit-lead"
)

func newSlotsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List bookable slots for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := slotgenerator.ParseDate(date, time.Local)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(e *env) error {
				svc := slotgenerator.NewService(e.store, time.Now, e.log)
				slots, err := svc.DaySlots(day)
				if err != nil {
					return err
				}
				return printJSON(slots)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "day to list (YYYY-MM-DD)")
	return cmd
}

func newTestWebhookCmd() *cobra.Command {
	var leadType string

	cmd := &cobra.Command{
		Use:   "test-webhook",
		Short: "Send a test lead to the configured webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			lt := models.LeadType(leadType)
			if !lt.Valid() {
				return fmt.Errorf("unknown lead type %q", leadType)
			}
			return withStore(cmd.Context(), func(e *env) error {
				payload := submitlead.NewPayload(e.store.Get(), models.Lead{
					Type:    lt,
					Name:    "Test User",
					Phone:   "123456789",
					Email:   "test@example.com",
					Message: "This is a test message from sitectl",
				})
				payload.Meta.Source = "sitectl"

				gateway := submitlead.NewGateway(submitlead.LoadConfig(e.cfg), e.log)
				result := gateway.Submit(cmd.Context(), payload)
				if err := printJSON(result); err != nil {
					return err
				}
				if !result.Success {
					return fmt.Errorf("webhook test failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&leadType, "type", string(models.LeadFeedback), "lead type: chat, quote, booking or feedback")
	return cmd
}
