// Package ui prints knewkarma results to the console.
//
// Colors are on only when stdout is a terminal and can be switched off with
// SetColor(false). Tables use go-pretty:
//
//	ui.SetColor(false)
//	ui.Render(normalize.Records(posts), false)
//	ui.PrintElapsed(time.Since(start))
package ui
