package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/emvqr"
	"github.com/spf13/cobra"
)

func decodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode [payload]",
		Short: "Verify the checksum of a PayNow payload and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qr, err := emvqr.ParsePayNow(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(qr)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Proxy type\t%s\n", qr.ProxyType)
			fmt.Fprintf(w, "Proxy value\t%s\n", qr.ProxyValue)
			fmt.Fprintf(w, "Amount\t%s %s\n", qr.Currency, qr.Amount)
			fmt.Fprintf(w, "Editable amount\t%t\n", qr.EditableAmount)
			fmt.Fprintf(w, "Expiry\t%s\n", qr.Expiry)
			fmt.Fprintf(w, "Merchant\t%s, %s %s\n", qr.MerchantName, qr.MerchantCity, qr.CountryCode)
			fmt.Fprintf(w, "Reference\t%s\n", qr.Reference)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}
