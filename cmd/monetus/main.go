package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"monetus/internal/catalog"
	"monetus/internal/cli"
	"monetus/internal/export"
	"monetus/internal/scan"
	"monetus/internal/services"
	"monetus/internal/storage"
)

func main() {
	var (
		summaryMonth = flag.String("summary", "", "print the monthly summary for YYYY-MM")
		exportTx     = flag.String("export-transactions", "", "write all transactions as CSV to the given file")
		exportBudget = flag.String("export-budgets", "", "write all budgets as CSV to the given file")
		scanImage    = flag.String("scan", "", "scan a receipt image and print the pre-fill suggestion")
		register     = flag.Bool("register", false, "register a local account")
		login        = flag.Bool("login", false, "authenticate and run the startup tasks")
		resetPass    = flag.Bool("reset-password", false, "reset the password via the security answer")
		logout       = flag.Bool("logout", false, "clear the active profile")

		name        = flag.String("name", "", "account name (register)")
		email       = flag.String("email", "", "account email")
		password    = flag.String("password", "", "account password")
		question    = flag.String("security-question", "", "security question (register)")
		answer      = flag.String("security-answer", "", "security answer")
		newPassword = flag.String("new-password", "", "replacement password (reset)")
	)

	cli.LoadEnvFile()
	flag.Parse()

	logger := cli.SetupLogger(os.Getenv("MONETUS_LOG_LEVEL"))
	cfg := cli.MustLoadConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)
	store := cli.MustOpenStore(logger, cfg)
	defer store.Close()

	ctx := context.Background()
	var err error

	switch {
	case *register:
		auth := services.NewAuthService(store)
		err = auth.Register(ctx, *name, *email, *password, *question, *answer)
	case *resetPass:
		auth := services.NewAuthService(store)
		err = auth.ResetPassword(ctx, *email, *answer, *newPassword)
	case *logout:
		err = services.NewAuthService(store).Logout(ctx)
	case *summaryMonth != "":
		err = printSummary(ctx, store, *summaryMonth)
	case *exportTx != "":
		err = writeCSV(*exportTx, func(f *os.File) error {
			return export.NewExporter(store).WriteTransactions(ctx, f)
		})
	case *exportBudget != "":
		err = writeCSV(*exportBudget, func(f *os.File) error {
			return export.NewExporter(store).WriteBudgets(ctx, f)
		})
	case *scanImage != "":
		err = scanReceipt(ctx, store, cfg.GeminiAPIKey, cfg.GeminiModel, *scanImage)
	default:
		// Plain start (and -login) runs the startup tasks.
		if *login {
			auth := services.NewAuthService(store)
			if _, err = auth.Authenticate(ctx, *email, *password); err != nil {
				break
			}
		}
		err = startup(ctx, store)
	}

	if err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// startup runs the login-time tasks: the recurrence projection as a
// detached best-effort job, alongside loading the active profile. A
// projection failure is logged by the task and never fails startup.
func startup(ctx context.Context, store *storage.Repository) error {
	projector := services.NewProjector(store)
	done := projector.RunAsync(ctx, time.Now())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-done // awaited here, but failures stay non-fatal
		return nil
	})
	g.Go(func() error {
		profile, err := store.GetProfile(ctx)
		if err != nil {
			return err
		}
		if profile == nil {
			fmt.Println("no active profile; run with -login or -register")
			return nil
		}
		fmt.Printf("signed in as %s <%s>\n", profile.Name, profile.Email)
		return nil
	})
	return g.Wait()
}

func printSummary(ctx context.Context, store *storage.Repository, month string) error {
	summary, err := services.NewSummarizer(store).SummarizeMonth(ctx, month)
	if err != nil {
		return err
	}

	fmt.Printf("Month %s\n", summary.Month)
	fmt.Printf("  income:    %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Printf("  expense:   %s\n", summary.TotalExpense.StringFixed(2))
	fmt.Printf("  available: %s\n", summary.Available.StringFixed(2))

	fmt.Println("  income by category:")
	for _, cs := range summary.IncomeCategories {
		fmt.Printf("    %-40s %12s%s\n", cs.Type+" / "+cs.Category, cs.Amount.StringFixed(2), targetSuffix(cs.TargetAmount))
	}
	fmt.Println("  expenses by category:")
	for _, cs := range summary.ExpenseCategories {
		fmt.Printf("    %-40s %12s%s\n", cs.Type+" / "+cs.Category, cs.Amount.StringFixed(2), targetSuffix(cs.TargetAmount))
	}
	return nil
}

func targetSuffix(target *decimal.Decimal) string {
	if target == nil {
		return ""
	}
	return fmt.Sprintf("  (target %s)", target.StringFixed(2))
}

func scanReceipt(ctx context.Context, store *storage.Repository, apiKey, model, path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	scanner, err := scan.NewGeminiScanner(ctx, apiKey, model)
	if err != nil {
		return err
	}
	defer scanner.Close()

	pairs, err := catalog.New(store).All(ctx)
	if err != nil {
		return err
	}

	guess, err := scanner.ScanReceipt(ctx, image, imageFormat(path), pairs)
	if err != nil {
		return err
	}

	draft, err := json.MarshalIndent(guess.Prefill(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(draft))
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}

func imageFormat(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "png"
	default:
		return "jpeg"
	}
}
