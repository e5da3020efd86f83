/*
 * @module cmd/valuation-cli/commands/root
 * @description 离线估值命令行：在本地文件上运行质量评估与估值聚合，不依赖数据库与会话
 * @architecture 命令行层
 * @documentReference DESIGN.md
 * @stateFlow 解析参数 -> 调用估值/质量服务 -> 输出表格或JSON
 * @rules 输出写入 cmd.OutOrStdout()；错误由 cobra 统一打印
 * @dependencies github.com/spf13/cobra
 * @refs service/dataset, service/data_quality, service/valuation
 */

package commands

import (
	"encoding/json"
	"io"
	"valuation-service/logger"

	"github.com/spf13/cobra"
)

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "valuation-cli",
		Short: "开放数据估值命令行工具",
		Long: `在本地数据集文件上运行质量评估，
并按六个价值维度的星级计算估值得分`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitLogger(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "日志级别 (debug|info|warn|error)")

	root.AddCommand(newQualityCmd(), newAggregateCmd())
	return root
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
