package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// showSettingsDialog edits the application preferences and the defaults
// that new projects start from.
func (a *App) showSettingsDialog() {
	cfg := a.config

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		cfg.DefaultGCodeProfile = selected
	})
	profileSelect.SetSelected(cfg.DefaultGCodeProfile)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	redisEntry := widget.NewEntry()
	redisEntry.SetPlaceHolder("localhost:6379")
	redisEntry.SetText(cfg.RedisAddr)
	redisEntry.OnChanged = func(s string) { cfg.RedisAddr = s }

	cacheDirEntry := widget.NewEntry()
	cacheDirEntry.SetPlaceHolder("user cache directory")
	cacheDirEntry.SetText(cfg.CacheDir)
	cacheDirEntry.OnChanged = func(s string) { cfg.CacheDir = s }

	cacheSelect := widget.NewSelect([]string{"none", "file", "redis"}, func(selected string) {
		cfg.CacheBackend = selected
		if selected == "redis" {
			redisEntry.Enable()
		} else {
			redisEntry.Disable()
		}
	})
	cacheSelect.SetSelected(cfg.CacheBackend)

	serverEntry := widget.NewEntry()
	serverEntry.SetText(cfg.ServerAddr)
	serverEntry.OnChanged = func(s string) { cfg.ServerAddr = s }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Result Cache", cacheSelect),
		widget.NewFormItem("Cache Directory", cacheDirEntry),
		widget.NewFormItem("Redis Address", redisEntry),
		widget.NewFormItem("Server Address", serverEntry),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Depth (0 = unbounded)", intEntry(&cfg.DefaultDepth)),
		widget.NewFormItem("Default Memory (MB)", intEntry(&cfg.DefaultMemoryBudgetMB)),
		widget.NewFormItem("Default Tool Diameter (mm)", floatEntry(&cfg.DefaultToolDiameter)),
		widget.NewFormItem("Default Feed Rate (mm/min)", floatEntry(&cfg.DefaultFeedRate)),
		widget.NewFormItem("Default Plunge Rate (mm/min)", floatEntry(&cfg.DefaultPlungeRate)),
		widget.NewFormItem("Default Spindle Speed (RPM)", intEntry(&cfg.DefaultSpindleSpeed)),
		widget.NewFormItem("Default Safe Z (mm)", floatEntry(&cfg.DefaultSafeZ)),
		widget.NewFormItem("Default Cut Depth (mm)", floatEntry(&cfg.DefaultCutDepth)),
		widget.NewFormItem("Default Pass Depth (mm)", floatEntry(&cfg.DefaultPassDepth)),
		widget.NewFormItem("Default GCode Profile", profileSelect),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.applyConfig(cfg)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				a.setStatus("Preferences saved")
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 640))
	d.Show()
}

// applyConfig makes cfg current: the theme is switched and the cache is
// reopened when its backend settings changed.
func (a *App) applyConfig(cfg model.AppConfig) {
	old := a.config
	a.config = cfg

	a.theme.SetVariantName(cfg.Theme)
	a.app.Settings().SetTheme(a.theme)

	if old.CacheBackend != cfg.CacheBackend || old.CacheDir != cfg.CacheDir || old.RedisAddr != cfg.RedisAddr {
		if a.solveCancel != nil {
			dialog.ShowInformation("Cache", "The new cache is used after the running solve.", a.window)
			return
		}
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("closing cache", "err", err)
		}
		a.cache = a.openCache()
	}
}

// showImportExportDialog backs up or restores preferences and custom
// G-code profiles.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, model.CustomProfiles); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("palletcut-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current preferences and custom profiles.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					a.restoreBackup(path)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences and custom GCode profiles to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

func (a *App) restoreBackup(path string) {
	backup, err := project.ImportAllData(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	model.CustomProfiles = nil
	for _, p := range backup.Profiles {
		if err := model.AddCustomProfile(p); err != nil {
			a.logger.Warn("profile skipped", "name", p.Name, "err", err)
		}
	}
	a.persistCustomProfiles(a.window)
	a.refreshProfileSelector()

	a.applyConfig(backup.Config)
	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
		return
	}
	a.SetupMenus()
	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
