package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// materialsCmd 列出物料目录及其解析后的分类
var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "列出物料目录",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, materials, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-16s %-28s %-10s %10s\n", "ID", "NAME", "CATEGORY", "R/KG")
		for _, m := range materials {
			fmt.Fprintf(w, "%-16s %-28s %-10s %10s\n", m.ID, m.Name, m.Category, m.RatePerKg.StringFixed(2))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}
