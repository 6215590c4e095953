package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fr4nk3nst1ner/jobboard/internal/config"
	"github.com/fr4nk3nst1ner/jobboard/internal/ui"
)

var commands = []command{
	{"jobs", "Browse jobs (-keyword -location -industry -salary -title -search -job -i)", runJobs},
	{"job", "Show one job: job <id>", runJob},
	{"apply", "Apply to a job: apply [-name -location -salary -resume -direct] <id>", runApply},
	{"login", "Sign in", runLogin},
	{"signup", "Create an account (-role student|recruiter)", runSignup},
	{"logout", "Sign out", runLogout},
	{"profile", "Show or update your profile (-update)", runProfile},
	{"applied", "List the jobs you applied to", runApplied},
	{"notifications", "list | watch | read <id> | read-all | test-relay", runNotifications},
	{"recruiter", "myjobs | post | edit <id> | applicants <jobId> | status <appId> <accepted|rejected>", runRecruiter},
	{"companies", "list | register <name>", runCompanies},
	{"admin", "stats | users [-q -role -status] | recruiter-status <userId> <status>", runAdmin},
}

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\n📋 JobBoard Usage Examples 📋")
	fmt.Println("\n1. Browse backend jobs in Lahore and show the first match:")
	fmt.Println("   jobboard jobs -industry \"Backend Developer\" -location Lahore")

	fmt.Println("\n2. Browse interactively with filters, paging and selection:")
	fmt.Println("   jobboard jobs -i")

	fmt.Println("\n3. Apply to a job with a resume, signing in on the way if needed:")
	fmt.Println("   jobboard apply -resume ./cv.pdf 665f1c2e9b")

	fmt.Println("\n4. Watch notifications and forward new ones to Telegram (telegram.enabled: true in config.yaml):")
	fmt.Println("   TELEGRAM_BOT_TOKEN=... TELEGRAM_CHAT_ID=... jobboard notifications watch")

	fmt.Println("\n5. Review applicants for one of your postings:")
	fmt.Println("   jobboard recruiter applicants 665f1c2e9b")

	fmt.Println("\n6. Talk to a different backend through a proxy:")
	fmt.Println("   JOBBOARD_API_URL=https://jobs.example.com/api/v1 jobboard -proxy http://localhost:8080 jobs")
	os.Exit(0)
}

func usage() {
	fmt.Println("Usage: jobboard [flags] <command> [args]")
	fmt.Println("\nCommands:")
	for _, c := range commands {
		fmt.Printf("  %-14s %s\n", c.name, c.usage)
	}
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml")
	debug := flag.Bool("debug", false, "Enable debug logging")
	proxyURL := flag.String("proxy", "", "Proxy URL to use")
	examples := flag.Bool("examples", false, "Show usage examples")

	// Banner control flags (two aliases for the same functionality)
	silence := flag.Bool("silence", false, "Silence the banner")
	noBanner := flag.Bool("nobanner", false, "Silence the banner (alias for -silence)")

	flag.Usage = usage
	flag.Parse()

	if *examples {
		printExamples()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *debug {
		cfg.Debug = true
	}
	if *proxyURL != "" {
		cfg.API.Proxy = *proxyURL
	}

	ui.PrintBanner(os.Stdout, *silence || *noBanner || !cfg.Display.Banner)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Printf("Unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Error starting: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, context.Canceled) {
			return
		}
		a.report(err)
		a.logger.Debug("command failed", a.logger.Args("command", cmd.name, "error", err))
		stop()
		os.Exit(1)
	}
}
