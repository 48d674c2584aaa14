// PalletView is the desktop front end of PalletCut.
//
// Build:
//   go build -o palletview ./cmd/palletview
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o palletview.exe ./cmd/palletview
//   GOOS=darwin  GOARCH=amd64 go build -o palletview-darwin ./cmd/palletview
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/PalletCut/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.palletcut")
	window := application.NewWindow("PalletCut")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 780))
	window.CenterOnScreen()
	window.ShowAndRun()
}
