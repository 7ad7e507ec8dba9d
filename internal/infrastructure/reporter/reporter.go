package reporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"aave_borrower/internal/domain/entity"
	"aave_borrower/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Write renders report to w in the given format.
func Write(w io.Writer, format string, report *entity.RunReport) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText, "":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeJSON(w io.Writer, report *entity.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeText(w io.Writer, report *entity.RunReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Network:\t%s (chain %d)\n", report.Network, report.ChainID)
	fmt.Fprintf(tw, "Account:\t%s\n", report.Account)
	if report.LendingPool != "" {
		fmt.Fprintf(tw, "Lending pool:\t%s\n", report.LendingPool)
	}
	fmt.Fprintf(tw, "Deposit:\t%s\n", utils.FormatEther(report.DepositAmount))
	if report.WrappedBalance != nil {
		fmt.Fprintf(tw, "Wrapped balance:\t%s\n", utils.FormatEther(report.WrappedBalance))
	}
	if report.BorrowAmount != nil {
		fmt.Fprintf(tw, "Borrowed (smallest unit):\t%s\n", report.BorrowAmount.String())
	}
	if acct := report.FinalAccount; acct != nil {
		fmt.Fprintf(tw, "Collateral:\t%s\n", utils.FormatEther(acct.TotalCollateralBase))
		fmt.Fprintf(tw, "Debt:\t%s\n", utils.FormatEther(acct.TotalDebtBase))
		fmt.Fprintf(tw, "Available to borrow:\t%s\n", utils.FormatEther(acct.AvailableBorrowsBase))
	}

	fmt.Fprintln(tw, "\nSTEP\tSTATUS\tTX\tBLOCK\tERROR")
	for _, s := range report.Steps {
		block := ""
		if s.BlockNumber != 0 {
			block = fmt.Sprint(s.BlockNumber)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Status, s.TxHash, block, s.Error)
	}
	return tw.Flush()
}
