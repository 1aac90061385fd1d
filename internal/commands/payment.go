package commands

import (
	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/api"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewPaymentCmd creates the payment command group.
func NewPaymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Donation and payment operations",
	}

	cmd.AddCommand(
		newPaymentInfoCmd(),
		newPaymentCreateCmd(),
		newPaymentRedeemCmd(),
		newPaymentConnectLoginCmd(),
		newPaymentPayPalConfirmCmd(),
	)

	return cmd
}

func newPaymentInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show supported currencies and thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			info, err := a.Account.StripeInfo(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(info)
		},
	}
}

func newPaymentCreateCmd() *cobra.Command {
	var currency string
	var amount int64
	var email string
	var verification string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Stripe payment",
		Long:  "Create a Stripe payment. --currency is optional; the server's default currency applies when omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			payment, err := a.Account.CreatePayment(cmd.Context(), api.CreatePaymentRequest{
				Currency:     currency,
				Amount:       amount,
				Email:        email,
				Verification: verification,
			})
			if err != nil {
				return err
			}
			return a.OK(payment, output.WithSummary("Payment created"))
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "Payment currency (optional)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in the smallest currency unit (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email for the payment receipt (required)")
	addVerificationFlag(cmd.Flags(), &verification)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newPaymentRedeemCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "redeem <payment-id>",
		Short: "Redeem a completed payment for a registration token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			token, err := a.Account.RedeemPayment(cmd.Context(), args[0], email)
			if err != nil {
				return err
			}
			return a.OK(map[string]string{
				"token": token,
			}, output.WithSummary("Payment redeemed"))
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email used for the payment (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newPaymentConnectLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect-login",
		Short: "Get a one-time Stripe Connect dashboard URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			login, err := a.Account.StripeConnectLogin(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(login)
		},
	}
}

func newPaymentPayPalConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paypal-confirm <order-id>",
		Short: "Confirm a completed PayPal order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			token, err := a.Account.PayPalAfterPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(map[string]string{
				"token": token,
			}, output.WithSummary("Order confirmed"))
		},
	}
}
