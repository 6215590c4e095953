package ui

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/utils"
	"github.com/pterm/pterm"
)

const bannerText = `
     ██╗ ██████╗ ██████╗ ██████╗  ██████╗  █████╗ ██████╗ ██████╗
     ██║██╔═══██╗██╔══██╗██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔══██╗
     ██║██║   ██║██████╔╝██████╔╝██║   ██║███████║██████╔╝██║  ██║
██   ██║██║   ██║██╔══██╗██╔══██╗██║   ██║██╔══██║██╔══██╗██║  ██║
╚█████╔╝╚██████╔╝██████╔╝██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
 ╚════╝  ╚═════╝ ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`

// ColorizeText applies a random gradient to the input text
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	firstPoint := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	runes := []rune(text)
	half := max(len(runes)/2, 1)

	var colored []byte
	for i, r := range runes {
		colored = append(colored, startColor.Fade(0, float32(len(runes)), float32(i%half), firstPoint).Sprint(string(r))...)
	}
	return string(colored)
}

// PrintBanner writes the application banner unless silenced
func PrintBanner(w io.Writer, silence bool) {
	if !silence {
		fmt.Fprintln(w, ColorizeText(bannerText))
	}
}

// FormatURL formats a URL, optionally as a clickable terminal hyperlink using OSC 8 escape sequence
func FormatURL(url, label string, useHyperlink bool) string {
	if !useHyperlink || url == "" {
		return url
	}
	if label == "" {
		label = url
	}
	// Using \a (BEL) as the terminator for wider compatibility
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, label)
}

// ColorizeSalary colors a job's formatted salary by its upper bound
func ColorizeSalary(job models.Job) string {
	formatted := utils.FormatSalary(job)
	if formatted == "Not specified" {
		return pterm.Gray(formatted)
	}

	top := job.SalaryMax.Value
	switch {
	case job.SalaryMax.Valid:
	case job.Salary.Max.Valid:
		top = job.Salary.Max.Value
	case job.Salary.Amount.Valid:
		top = job.Salary.Amount.Value
	}

	switch {
	case top >= 200000:
		return pterm.Green(formatted)
	case top >= 100000:
		return pterm.LightGreen(formatted)
	case top >= 50000:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}
