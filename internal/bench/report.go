package bench

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/born-ml/convolve/internal/conv"
)

// notApplicable marks a strategy skipped at a size.
const notApplicable = "N/A"

// reportStrategies is the column order of the report, fastest first.
var reportStrategies = []conv.Strategy{conv.Full, conv.Partial, conv.Naive}

// WriteTable renders results as a table of seconds, one row per image size.
func WriteTable(w io.Writer, results []Result) {
	header := []string{"IMG SIZE", "REFERENCE"}
	for _, s := range reportStrategies {
		header = append(header, strings.ToUpper(s.String()))
	}

	data := make([][]string, 0, len(results))
	for _, res := range results {
		row := []string{
			strconv.Itoa(res.Size) + "x" + strconv.Itoa(res.Size),
			seconds(res.Reference.Seconds()),
		}
		for _, s := range reportStrategies {
			if d, ok := res.Duration(s); ok {
				row = append(row, seconds(d.Seconds()))
			} else {
				row = append(row, notApplicable)
			}
		}
		data = append(data, row)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func seconds(s float64) string {
	return fmt.Sprintf("%.6f", s)
}
