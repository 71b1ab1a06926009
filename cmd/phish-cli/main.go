package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/di"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, logger *zap.Logger, engine *core.Engine) error {
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if flags.BatchFile != "" {
		return runBatch(ctx, flags, logger, engine)
	}

	text, err := readInput(flags, logger)
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	result, err := engine.Predict(ctx, text)
	if err != nil {
		logger.Fatal("Prediction failed", zap.Error(err))
	}

	return printResult(flags, result)
}

// runBatch analyzes one text per line from the batch file
func runBatch(ctx context.Context, flags *di.CLIFlags, logger *zap.Logger, engine *core.Engine) error {
	file, err := os.Open(flags.BatchFile)
	if err != nil {
		logger.Fatal("Failed to open batch file", zap.Error(err), zap.String("file", flags.BatchFile))
	}
	defer file.Close()

	var texts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal("Failed to read batch file", zap.Error(err))
	}

	results, err := engine.BatchPredict(ctx, texts)
	if err != nil {
		logger.Fatal("Batch prediction failed", zap.Error(err))
	}

	for _, result := range results {
		if err := printResult(flags, result); err != nil {
			return err
		}
	}
	return nil
}

func readInput(flags *di.CLIFlags, logger *zap.Logger) (string, error) {
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return "", err
		}
		defer file.Close()
		reader = file
		logger.Info("Reading text from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading text from stdin")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printResult(flags *di.CLIFlags, result *core.PredictionResult) error {
	if !flags.ShowFeatures {
		result.Features = nil
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
