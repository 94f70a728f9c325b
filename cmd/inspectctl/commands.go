package main

import (
	"context"
	"fmt"
	"inspection-review-service/service"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	exportItemsFile string
	exportOutDir    string
	dumpOutFile     string
)

func init() {
	rootCmd.AddCommand(importWhitelistCmd)
	rootCmd.AddCommand(importReviewsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dumpStoresCmd)
	rootCmd.AddCommand(resetReviewsCmd)

	exportCmd.Flags().StringVar(&exportItemsFile, "items", "", "检查项文件，为空时使用配置中的 INSPECTION_FILE")
	exportCmd.Flags().StringVar(&exportOutDir, "out", ".", "导出目录")
	dumpStoresCmd.Flags().StringVar(&dumpOutFile, "out", "", "输出文件，为空时输出到标准输出")
}

var importWhitelistCmd = &cobra.Command{
	Use:   "import-whitelist <file>",
	Short: "整表替换门店白名单",
	Long: `读取白名单表格(xlsx/csv)并整表替换门店白名单。

示例:
  inspectctl import-whitelist 门店白名单.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *service.App) error {
			result := app.WhitelistImporter.ImportFile(cmd.Context(), args[0])
			return printImportResult(cmd.OutOrStdout(), "白名单导入", result)
		})
	},
}

var importReviewsCmd = &cobra.Command{
	Use:   "import-reviews <file>",
	Short: "整表替换展示系统的审核结果",
	Long: `读取审核结果导出文件(csv/xlsx)，补全地理信息后整表替换展示数据。

示例:
  inspectctl import-reviews 审核结果_2024-01-01.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *service.App) error {
			result := app.ReviewImporter.ImportFile(cmd.Context(), args[0])
			return printImportResult(cmd.OutOrStdout(), "审核结果导入", result)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出当前审核结果CSV",
	Long: `加载检查项文件(不清空审核决定)并将已审核的检查项导出为CSV。

示例:
  inspectctl export --items 巡检.xlsx --out ./exports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *service.App) error {
			if exportItemsFile != "" {
				if err := reloadItems(cmd.Context(), app, exportItemsFile); err != nil {
					return err
				}
			}
			path, file, err := app.Exporter.WriteTo(cmd.Context(), exportOutDir)
			if err != nil {
				return fmt.Errorf("导出失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出 %d 条审核结果: %s\n", file.Rows, path)
			if file.ArchiveKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "已归档: %s\n", file.ArchiveKey)
			}
			return nil
		})
	},
}

var dumpStoresCmd = &cobra.Command{
	Use:   "dump-stores",
	Short: "将门店白名单导出为JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *service.App) error {
			w := cmd.OutOrStdout()
			if dumpOutFile != "" {
				f, err := os.Create(dumpOutFile)
				if err != nil {
					return fmt.Errorf("创建输出文件失败: %w", err)
				}
				defer f.Close()
				w = f
			}
			n, err := app.Roster.DumpJSON(cmd.Context(), w)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "已导出 %d 家门店\n", n)
			return nil
		})
	},
}

var resetReviewsCmd = &cobra.Command{
	Use:   "reset-reviews",
	Short: "清空全部审核决定",
	Long: `清空审核决定；配置了 INSPECTION_FILE 时会对检查项重新自动判定无现场结果的不合格项。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *service.App) error {
			result, err := app.Reviews.ResetCycle(cmd.Context())
			if err != nil {
				return fmt.Errorf("重置失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已清空 %d 条审核决定，自动判定不合格 %d 项\n", result.ClearedReviews, result.AutoFailed)
			return nil
		})
	},
}

// reloadItems 替换检查项快照，保留已有审核决定
func reloadItems(ctx context.Context, app *service.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开检查项文件失败: %w", err)
	}
	defer f.Close()
	if _, err := app.Items.Reload(ctx, f, filepath.Base(path)); err != nil {
		return fmt.Errorf("加载检查项失败: %w", err)
	}
	return nil
}
