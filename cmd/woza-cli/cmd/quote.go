package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"wozamali-core/internal/settlement"
)

var submissionPath string

type quoteOutput struct {
	*settlement.Result
	PartiallyProcessed bool  `json:"partially_processed"`
	SkippedIndices     []int `json:"skipped_indices"`
}

// quoteCmd 代表 quote 命令
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "离线计算一次回收的结算结果",
	Long:  `按照物料目录中的当前费率计算回收提交的金额、积分、环保影响和基金分配, 以 JSON 输出。不写入任何数据。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, _, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		sub, err := loadSubmission(submissionPath)
		if err != nil {
			return err
		}

		res, err := settlement.Settle(cmd.Context(), sub, catalog)
		if err != nil {
			return fmt.Errorf("settle: %w", err)
		}

		out, err := json.MarshalIndent(quoteOutput{
			Result:             res,
			PartiallyProcessed: res.PartiallyProcessed(),
			SkippedIndices:     res.SkippedIndices(),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	quoteCmd.Flags().StringVar(&submissionPath, "submission", "submission.yaml", "回收提交 YAML 文件")
	rootCmd.AddCommand(quoteCmd)
}
