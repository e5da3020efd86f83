package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"valuation-service/service/data_quality"
	"valuation-service/service/dataset"
	"valuation-service/service/models"

	"github.com/spf13/cobra"
)

type qualityOutput struct {
	File        string               `json:"file"`
	Format      dataset.Format       `json:"format"`
	Fingerprint string               `json:"fingerprint"`
	Columns     []string             `json:"columns"`
	Quality     models.QualityReport `json:"quality"`
}

func newQualityCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "quality <file>...",
		Short: "评估 CSV/XLSX/XLS 文件的数据质量",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]qualityOutput, 0, len(args))
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("读取文件失败: %w", err)
				}
				up, err := dataset.Load(filepath.Base(path), raw)
				if err != nil {
					return err
				}
				results = append(results, qualityOutput{
					File:        path,
					Format:      up.Format,
					Fingerprint: up.Fingerprint,
					Columns:     up.Table.Columns,
					Quality:     data_quality.NewDatasetQualityValuator(up.Table).Score(),
				})
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tROWS\tCOLS\tMISSING\tMISSING%\tDUPLICATES\tEMPTY COLS")
			for _, r := range results {
				q := r.Quality
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%d\t%d\n",
					r.File, q.Rows, q.Cols, q.MissingCells, q.MissingRatio*100, q.Duplicates, q.EmptyColumns)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "以JSON输出")
	return cmd
}
