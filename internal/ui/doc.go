// Package ui prints command results and asks for confirmation. Styling
// and prompts are only used when the output is a terminal.
package ui
