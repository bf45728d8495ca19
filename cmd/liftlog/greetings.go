package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var gymGreetings = [...]string{
	"The bar is loaded. You are not under it.",
	"Rest days are earned. This one looks suspiciously self-issued.",
	"Your last personal record is getting lonely.",
	"Nobody has ever regretted logging a set.",
	"The plates don't rack themselves, and they don't log themselves either.",
	"Progressive overload needs a log. Yours is waiting.",
	"Somewhere a squat rack has your name on it. Figuratively.",
	"You can't beat last week's numbers if you don't know them.",
	"The program says week three. The log says nothing.",
	"Chalk up. Sign in. Lift.",
	"Consistency beats intensity, and both beat an empty log.",
	"Deadlifts build character. Logging them builds evidence.",
	"Volume is just sets times reps times weight. You still need the sets.",
	"Your future self wants to know what you benched today.",
	"Every program starts on week one, day one.",
	"The spotter is ready whenever you are.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("L I F T L O G")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Track workouts, follow programs, beat your records.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"liftlog", "Open the tracker (interactive TUI)"},
		{"liftlog login", "Sign in with email and password"},
		{"liftlog register", "Create an account and sign in"},
		{"liftlog logout", "Clear your session"},
		{"liftlog whoami", "Show the signed-in user"},
		{"liftlog import <csv>", "Import a program from a CSV file"},
		{"liftlog plates <kg>", "Plates per side for a barbell weight"},
		{"liftlog web", "Open the web app"},
		{"liftlog --version", "Show version"},
		{"liftlog help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, quote)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	flag := descStyle.Render("--ephemeral keeps the session in memory for this run only")
	fmt.Printf("\n  %s\n\n", flag)
}

func printGreeting() {
	msg := gymGreetings[rand.IntN(len(gymGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("LIFTLOG")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To start: liftlog login  (or liftlog register)")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
