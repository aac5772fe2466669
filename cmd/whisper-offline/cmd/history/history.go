package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"whisper-offline/cmd/whisper-offline/cmd/common"
	"whisper-offline/internal/app"
	"whisper-offline/internal/app/model"
)

var errHistoryDisabled = errors.New("history is disabled in the configuration")

var (
	listLimit      int
	exportLimit    int
	asJSON         bool
	outputFilePath string
)

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "number of runs to show, 0 for all")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")

	exportCmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "xlsx file to write")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 0, "number of runs to export, 0 for all")
	exportCmd.MarkFlagRequired("output")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(exportCmd)
}

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded transcription runs",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := loadRuns(cmd, listLimit)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				r.FinishedAt.Local().Format(time.DateTime),
				string(r.Stage),
				r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
				r.InputPath,
				firstLine(r.Status),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Finished", "Stage", "Duration", "Input", "Status"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
		))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := common.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if !cfg.History.Enabled {
			return errHistoryDisabled
		}

		conv, err := app.InitializeConverter(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer conv.Close()

		n, err := conv.ExportHistory(cmd.Context(), outputFilePath, exportLimit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "export finished, %d runs written to %s\n", n, outputFilePath)
		return nil
	},
}

func loadRuns(cmd *cobra.Command, limit int) ([]model.RunRecord, error) {
	cfg, logger, err := common.Setup()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	if !cfg.History.Enabled {
		return nil, errHistoryDisabled
	}

	dao, err := app.InitializeRunDAO(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer dao.Close()

	return dao.ListRuns(cmd.Context(), limit)
}

// firstLine keeps multi-line tool stderr from breaking the table.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
