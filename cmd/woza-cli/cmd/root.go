package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catalogPath string

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "woza-cli",
	Short: "Woza Mali 回收结算命令行工具",
	Long: `离线预览回收结算结果。
读取 YAML 格式的物料目录与回收提交, 使用与服务端相同的结算引擎计算金额、积分、环保影响与基金分配。`,
	SilenceUsage: true,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "catalog.yaml", "物料目录 YAML 文件")
}
