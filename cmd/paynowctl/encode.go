package main

import (
	"fmt"
	"os"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/paynow"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/qrimage"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	var (
		mobile, uen, amount, reference, name string
		editable                             bool
		svgPath, pngPath, color              string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the PayNow payload of a payment",
		Long: `Print the PayNow payload of a payment and optionally render it as a QR image.

Examples:
  paynowctl encode --mobile 86854221 --amount 1.00 --reference test
  paynowctl encode --uen 201912345Z --amount 12.90 --reference TBL12-0001 --png order.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payee, err := paynow.NewProxy(mobile, uen)
			if err != nil {
				return err
			}

			value, err := paynow.ParseAmount(amount)
			if err != nil {
				return err
			}

			payload, err := paynow.Encode(paynow.PaymentIntent{
				Payee:          payee,
				Amount:         value,
				Reference:      reference,
				EditableAmount: editable,
				MerchantName:   name,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload)

			opts := qrimage.DefaultOptions()
			opts.Foreground = color
			if svgPath != "" {
				if err := writeImage(svgPath, payload, opts, qrimage.SVG); err != nil {
					return err
				}
			}
			if pngPath != "" {
				if err := writeImage(pngPath, payload, opts, qrimage.PNG); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mobile, "mobile", "", "Singapore mobile number of the payee")
	cmd.Flags().StringVar(&uen, "uen", "", "UEN of the payee")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount in SGD, e.g. 12.90")
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "bill reference shown to the payer")
	cmd.Flags().StringVarP(&name, "name", "n", "", "merchant name")
	cmd.Flags().BoolVar(&editable, "editable", false, "let the payer change the amount")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the QR code as SVG to this file")
	cmd.Flags().StringVar(&pngPath, "png", "", "write the QR code as PNG to this file")
	cmd.Flags().StringVar(&color, "color", qrimage.DefaultForeground, "QR code foreground color")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("reference")

	return cmd
}

func writeImage(path, payload string, opts qrimage.Options, render func(string, qrimage.Options) ([]byte, error)) error {
	img, err := render(payload, opts)
	if err != nil {
		return fmt.Errorf("could not render %s: %w", path, err)
	}
	return os.WriteFile(path, img, 0o644)
}
