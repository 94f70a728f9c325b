// Package main 门店巡检审核服务的运维命令行工具，直接连接数据库执行导入导出。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"inspection-review-service/logger"
	"inspection-review-service/service"
	"inspection-review-service/service/config"
	"inspection-review-service/service/models"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// logLevel 日志级别
	logLevel string
	// outputJSON 以JSON格式输出结果
	outputJSON bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inspectctl",
	Short: "门店巡检审核服务运维工具",
	Long: `inspectctl 使用与服务相同的配置(配置文件、.env、环境变量)直接连接数据库，
用于批量更新白名单、导入审核结果、导出当前审核结果等运维操作。`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "日志级别 debug/info/warn/error")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "以JSON格式输出结果")
}

// withApp 加载配置并初始化服务，执行完毕后释放资源
func withApp(ctx context.Context, fn func(app *service.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	app, err := service.Init(ctx, cfg)
	if err != nil {
		return fmt.Errorf("服务初始化失败: %w", err)
	}
	defer app.Close()
	return fn(app)
}

// printImportResult 输出导入结果，失败时返回错误使进程以非零状态退出
func printImportResult(w io.Writer, title string, result models.ImportResult) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if result.Success {
		fmt.Fprintf(w, "%s成功\n", title)
		fmt.Fprintf(w, "  导入记录: %d\n", result.RecordsCount)
		fmt.Fprintf(w, "  跳过行数: %d\n", result.SkippedRowsCount)
		if result.UnmatchedStoresCount > 0 {
			fmt.Fprintf(w, "  未匹配门店: %d\n", result.UnmatchedStoresCount)
		}
	} else {
		fmt.Fprintf(w, "%s失败 [%s]: %s\n", title, result.ErrorType, result.ErrorMessage)
	}

	if !result.Success {
		return fmt.Errorf("%s失败", title)
	}
	return nil
}
