package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/config"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/engine"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/logger"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/report"
)

func main() {
	var (
		confPath = flag.String("conf", "app/dream_analyzer/configs/cli.yaml", "config path")
		school   = flag.String("school", "", "解读流派，留空使用默认流派")
		dream    = flag.String("dream", "", "梦境描述，留空时从标准输入读取")
		out      = flag.String("out", report.Filename, "PDF 报告输出路径，传入 - 跳过报告生成")
	)
	flag.Parse()

	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	narrative := *dream
	if narrative == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Log.Fatalf("读取梦境描述失败: %v", err)
		}
		narrative = strings.TrimSpace(string(data))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 3. 初始化引擎
	eng, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	if *school == "" {
		*school = eng.DefaultSchool()
	}

	// 4. 解析梦境
	result, err := eng.Analyze(ctx, model.AnalysisRequest{Narrative: narrative, School: *school})
	if err != nil {
		logger.Log.Fatalf("梦境解析失败: %v", err)
	}

	fmt.Printf("【%s】\n\n%s\n", result.School, result.Analysis)
	if len(result.Symbols) > 0 {
		fmt.Println("\n关键符号：")
		for _, s := range result.Symbols {
			fmt.Printf("  • %s: %s\n", s.Symbol, s.Meaning)
		}
	}

	if *out == "-" {
		return
	}

	// 5. 生成报告
	pdf, err := eng.Report(ctx, model.ReportRequestFrom(result))
	if err != nil {
		logger.Log.Fatalf("报告生成失败: %v", err)
	}
	if err := os.WriteFile(*out, pdf, 0644); err != nil {
		logger.Log.Fatalf("写入报告失败: %v", err)
	}
	logger.Log.Infof("报告已生成: %s", *out)
}
