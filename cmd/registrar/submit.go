package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"registrar/internal/form"
	"registrar/pkg/client"
	"registrar/pkg/validator"
)

var errSubmissionFailed = errors.New("submission failed")

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one registration",
	Example: `
registrar submit --server=http://localhost:8080 \
  --name="Jane Doe" --branch=banasree --batch=2015-2016 \
  --whatsapp=01712345678 --payment-method=bkash \
  --send-money=01892747691 --transaction-id=TXN123
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
		if !submitVerbose {
			log = log.Level(zerolog.WarnLevel)
		}

		ctrl := form.New(client.New(submitServer, client.WithTimeout(submitTimeout)), &log)
		for field, value := range submitValues {
			if err := ctrl.UpdateField(field, *value); err != nil {
				return err
			}
		}
		err := runSubmit(cmd.Context(), cmd.OutOrStdout(), ctrl)
		if err != nil && !errors.Is(err, errSubmissionFailed) {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return err
	},
}

var (
	submitServer  string
	submitTimeout time.Duration
	submitVerbose bool
	submitValues  = map[validator.Field]*string{}
)

var fieldFlags = []struct {
	field validator.Field
	flag  string
	usage string
}{
	{validator.FieldName, "name", "full name, letters and spaces only"},
	{validator.FieldBranch, "branch", "one of motijheel, mugda, banasree"},
	{validator.FieldBatch, "batch", "batch, e.g. 2015-2016"},
	{validator.FieldWhatsappNumber, "whatsapp", "WhatsApp number, 01 followed by 9 digits"},
	{validator.FieldPaymentMethod, "payment-method", "one of bkash, nagad, rocket"},
	{validator.FieldSendMoneyNumber, "send-money", "number the fee was sent from, 11 or 12 digits"},
	{validator.FieldTransactionID, "transaction-id", "transaction id of the fee payment"},
}

func init() {
	submitCmd.Flags().StringVarP(&submitServer, "server", "s", "http://localhost:8080", "registration API base URL")
	submitCmd.Flags().DurationVarP(&submitTimeout, "timeout", "", 30*time.Second, "request timeout")
	submitCmd.Flags().BoolVarP(&submitVerbose, "verbose", "v", false, "log request details")
	for _, f := range fieldFlags {
		submitValues[f.field] = submitCmd.Flags().String(f.flag, "", f.usage)
	}
	rootCmd.AddCommand(submitCmd)
}

// runSubmit submits the controller's record and reports the outcome to out.
// It returns errSubmissionFailed when the registration was not stored.
func runSubmit(ctx context.Context, out io.Writer, ctrl *form.Controller) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := ctrl.Submit(ctx)
	switch {
	case errors.Is(err, form.ErrInvalidForm):
		printFieldErrors(out, ctrl.Errors())
		return errSubmissionFailed
	case err != nil:
		return err
	}

	if resp.Success {
		fmt.Fprintln(out, resp.Message)
		return nil
	}

	if errs := ctrl.Errors(); len(errs) > 0 {
		printFieldErrors(out, errs)
	} else {
		fmt.Fprintln(out, resp.Message)
	}
	return errSubmissionFailed
}

func printFieldErrors(out io.Writer, errs map[validator.Field]string) {
	for _, f := range validator.Fields {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(out, "%s: %s\n", f, msg)
		}
	}
}
