package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletCut/internal/gcode"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

const noProfileSelected = "Select a profile to view details."

// previewResult is the layout the profile editor previews programs with:
// a 10 x 6 slip sheet holding two upright boxes and one rotated box.
var previewResult = model.Result{
	Problem:    model.Problem{Label: "Preview", Length: 10, Width: 6, BoxLength: 4, BoxWidth: 3},
	Count:      3,
	UpperBound: 4,
	Boxes: []model.Box{
		{X1: 0, Y1: 0, X2: 4, Y2: 3},
		{X1: 0, Y1: 3, X2: 4, Y2: 6},
		{X1: 4, Y1: 0, X2: 7, Y2: 4, Rotated: true},
	},
}

// showProfileManager opens the window where G-code profiles are listed,
// created, duplicated, edited, imported, exported and deleted.
func (a *App) showProfileManager() {
	w := fyne.CurrentApp().NewWindow("G-code Profile Manager")
	w.Resize(fyne.NewSize(700, 500))

	selectedIdx := -1
	profiles := model.AllProfiles()
	detail := container.NewVBox(widget.NewLabel(noProfileSelected))

	list := widget.NewList(
		func() int { return len(profiles) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			p := profiles[id]
			row.Objects[1].(*widget.Label).SetText(p.Name)
			tag := "(custom)"
			if p.IsBuiltIn {
				tag = "(built-in)"
			}
			row.Objects[3].(*widget.Label).SetText(tag)
		},
	)

	reload := func() {
		profiles = model.AllProfiles()
		selectedIdx = -1
		list.UnselectAll()
		list.Refresh()
		detail.RemoveAll()
		detail.Add(widget.NewLabel(noProfileSelected))
		detail.Refresh()
		a.refreshProfileSelector()
	}

	list.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showProfileDetail(detail, profiles[id], w, reload)
	}

	selected := func(action string) (model.GCodeProfile, bool) {
		if selectedIdx < 0 || selectedIdx >= len(profiles) {
			dialog.ShowInformation("No Selection", "Select a profile to "+action+".", w)
			return model.GCodeProfile{}, false
		}
		return profiles[selectedIdx], true
	}

	newBtn := newIconButtonWithTooltip(theme.ContentAddIcon(), "New profile", func() {
		a.showNewProfileDialog(w, reload)
	})
	duplicateBtn := newIconButtonWithTooltip(theme.ContentCopyIcon(), "Duplicate profile", func() {
		if p, ok := selected("duplicate"); ok {
			a.duplicateProfile(p, w, reload)
		}
	})
	importBtn := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Import profile from JSON", func() {
		a.importProfileDialog(w, reload)
	})
	exportBtn := newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Export profile to JSON", func() {
		if p, ok := selected("export"); ok {
			a.exportProfileDialog(p, w)
		}
	})
	deleteBtn := newIconButtonWithTooltip(theme.DeleteIcon(), "Delete custom profile", func() {
		p, ok := selected("delete")
		if !ok {
			return
		}
		if p.IsBuiltIn {
			dialog.ShowInformation("Cannot Delete", "Built-in profiles cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Profile", fmt.Sprintf("Delete custom profile %q?", p.Name),
			func(ok bool) {
				if !ok {
					return
				}
				if err := model.RemoveCustomProfile(p.Name); err != nil {
					dialog.ShowError(err, w)
					return
				}
				a.persistCustomProfiles(w)
				reload()
			}, w)
	})

	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profiles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(newBtn, duplicateBtn, importBtn, exportBtn, deleteBtn),
		nil, nil,
		list,
	)
	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profile Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detail),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.35)
	w.SetContent(withToolTips(split, w))
	w.Show()
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

// showProfileDetail fills c with a read-only view of p.
func (a *App) showProfileDetail(c *fyne.Container, p model.GCodeProfile, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	if p.IsBuiltIn {
		c.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	} else {
		c.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			a.showEditProfileDialog(p, w, onChanged)
		}))
	}

	c.Add(container.NewVBox(
		boldLabel(p.Name),
		widget.NewLabel(p.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			boldLabel("Units:"), widget.NewLabel(p.Units),
			boldLabel("Decimal Places:"), widget.NewLabel(strconv.Itoa(p.DecimalPlaces)),
		),
		widget.NewSeparator(),
		boldLabel("Commands"),
		container.NewGridWithColumns(2,
			widget.NewLabel("Rapid Move:"), widget.NewLabel(p.RapidMove),
			widget.NewLabel("Feed Move:"), widget.NewLabel(p.FeedMove),
			widget.NewLabel("Absolute Mode:"), widget.NewLabel(p.AbsoluteMode),
			widget.NewLabel("Feed Mode:"), widget.NewLabel(p.FeedMode),
			widget.NewLabel("Spindle Start:"), widget.NewLabel(p.SpindleStart),
			widget.NewLabel("Spindle Stop:"), widget.NewLabel(p.SpindleStop),
			widget.NewLabel("Home All:"), widget.NewLabel(p.HomeAll),
			widget.NewLabel("Comments:"), widget.NewLabel(fmt.Sprintf("%q ... %q", p.CommentPrefix, p.CommentSuffix)),
		),
		widget.NewSeparator(),
		boldLabel("Start Code"),
		widget.NewLabel(strings.Join(p.StartCode, "\n")),
		boldLabel("End Code"),
		widget.NewLabel(strings.Join(p.EndCode, "\n")),
	))
	c.Refresh()
}

// promptProfileName asks for a profile name and hands the trimmed result to
// create.
func promptProfileName(title, initial string, w fyne.Window, create func(name string) error) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("My Router")
	nameEntry.SetText(initial)

	form := dialog.NewForm(title, "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Profile Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("profile name cannot be empty"), w)
				return
			}
			if err := create(name); err != nil {
				dialog.ShowError(err, w)
			}
		}, w)
	form.Resize(fyne.NewSize(400, 150))
	form.Show()
}

func (a *App) showNewProfileDialog(w fyne.Window, onCreated func()) {
	promptProfileName("New Custom Profile", "", w, func(name string) error {
		if err := model.AddCustomProfile(model.NewCustomProfile(name)); err != nil {
			return err
		}
		a.persistCustomProfiles(w)
		onCreated()
		return nil
	})
}

func (a *App) duplicateProfile(source model.GCodeProfile, w fyne.Window, onCreated func()) {
	promptProfileName("Duplicate Profile", source.Name+" (Copy)", w, func(name string) error {
		dup := source
		dup.Name = name
		dup.IsBuiltIn = false
		dup.Description = "Copy of " + source.Name
		dup.StartCode = append([]string(nil), source.StartCode...)
		dup.EndCode = append([]string(nil), source.EndCode...)
		if err := model.AddCustomProfile(dup); err != nil {
			return err
		}
		a.persistCustomProfiles(w)
		onCreated()
		return nil
	})
}

// showEditProfileDialog edits a custom profile. The preview tab runs the
// real generator over a small sample layout.
func (a *App) showEditProfileDialog(p model.GCodeProfile, w fyne.Window, onSaved func()) {
	entry := func(text string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(text)
		return e
	}
	codeEntry := func(lines []string) *widget.Entry {
		e := widget.NewMultiLineEntry()
		e.SetText(strings.Join(lines, "\n"))
		e.SetMinRowsVisible(4)
		return e
	}

	nameEntry := entry(p.Name)
	descEntry := entry(p.Description)
	unitsSelect := widget.NewSelect([]string{"mm", "inches"}, nil)
	unitsSelect.SetSelected(p.Units)
	decimalEntry := entry(strconv.Itoa(p.DecimalPlaces))
	rapidEntry := entry(p.RapidMove)
	feedEntry := entry(p.FeedMove)
	absoluteEntry := entry(p.AbsoluteMode)
	feedModeEntry := entry(p.FeedMode)
	spindleStartEntry := entry(p.SpindleStart)
	spindleStopEntry := entry(p.SpindleStop)
	homeAllEntry := entry(p.HomeAll)
	commentPrefixEntry := entry(p.CommentPrefix)
	commentSuffixEntry := entry(p.CommentSuffix)
	startCodeEntry := codeEntry(p.StartCode)
	endCodeEntry := codeEntry(p.EndCode)

	collect := func() (model.GCodeProfile, error) {
		name := strings.TrimSpace(nameEntry.Text)
		if name == "" {
			return model.GCodeProfile{}, fmt.Errorf("profile name cannot be empty")
		}
		decimals, err := strconv.Atoi(decimalEntry.Text)
		if err != nil || decimals < 0 || decimals > 10 {
			return model.GCodeProfile{}, fmt.Errorf("decimal places must be a number between 0 and 10")
		}
		return model.GCodeProfile{
			Name:          name,
			Description:   descEntry.Text,
			Units:         unitsSelect.Selected,
			StartCode:     splitLines(startCodeEntry.Text),
			SpindleStart:  spindleStartEntry.Text,
			SpindleStop:   spindleStopEntry.Text,
			HomeAll:       homeAllEntry.Text,
			AbsoluteMode:  absoluteEntry.Text,
			FeedMode:      feedModeEntry.Text,
			RapidMove:     rapidEntry.Text,
			FeedMove:      feedEntry.Text,
			EndCode:       splitLines(endCodeEntry.Text),
			CommentPrefix: commentPrefixEntry.Text,
			CommentSuffix: commentSuffixEntry.Text,
			DecimalPlaces: decimals,
		}, nil
	}

	preview := widget.NewMultiLineEntry()
	preview.SetMinRowsVisible(12)
	updatePreview := func() {
		edited, err := collect()
		if err != nil {
			preview.SetText(err.Error())
			return
		}
		s := a.project.Settings
		s.Scale = 10
		preview.SetText(gcode.New(s).WithProfile(edited).Generate(previewResult))
	}
	updatePreview()

	grid := func(objs ...fyne.CanvasObject) fyne.CanvasObject {
		return container.NewVBox(container.NewGridWithColumns(2, objs...))
	}
	tabs := container.NewAppTabs(
		container.NewTabItem("General", grid(
			widget.NewLabel("Name"), nameEntry,
			widget.NewLabel("Description"), descEntry,
			widget.NewLabel("Units"), unitsSelect,
			widget.NewLabel("Decimal Places"), decimalEntry,
		)),
		container.NewTabItem("Motion", grid(
			widget.NewLabel("Rapid Move Command"), rapidEntry,
			widget.NewLabel("Feed Move Command"), feedEntry,
			widget.NewLabel("Absolute Mode"), absoluteEntry,
			widget.NewLabel("Feed Rate Mode"), feedModeEntry,
		)),
		container.NewTabItem("Spindle / Homing", grid(
			widget.NewLabel("Spindle Start (use %d for RPM)"), spindleStartEntry,
			widget.NewLabel("Spindle Stop"), spindleStopEntry,
			widget.NewLabel("Home All Axes"), homeAllEntry,
		)),
		container.NewTabItem("Comments", grid(
			widget.NewLabel("Comment Prefix"), commentPrefixEntry,
			widget.NewLabel("Comment Suffix"), commentSuffixEntry,
		)),
		container.NewTabItem("Start/End Code", container.NewVBox(
			boldLabel("Start Code (one command per line)"),
			startCodeEntry,
			widget.NewSeparator(),
			boldLabel("End Code (one command per line, [SafeZ] is replaced)"),
			endCodeEntry,
		)),
		container.NewTabItem("Preview", container.NewBorder(
			widget.NewButtonWithIcon("Refresh Preview", theme.ViewRefreshIcon(), updatePreview),
			nil, nil, nil,
			preview,
		)),
	)

	editWindow := fyne.CurrentApp().NewWindow("Edit Profile: " + p.Name)
	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		updated, err := collect()
		if err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		if err := model.SaveCustomProfileAs(p.Name, updated); err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		a.persistCustomProfiles(w)
		onSaved()
		editWindow.Close()
	})
	saveBtn.Importance = widget.HighImportance

	editWindow.SetContent(container.NewBorder(
		nil,
		container.NewHBox(layout.NewSpacer(), saveBtn),
		nil, nil,
		tabs,
	))
	editWindow.Resize(fyne.NewSize(640, 520))
	editWindow.Show()
}

func (a *App) importProfileDialog(w fyne.Window, onImported func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		profile, err := project.ImportProfile(reader.URI().Path())
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), w)
			return
		}
		if err := model.AddCustomProfile(profile); err != nil {
			dialog.ShowError(err, w)
			return
		}
		a.persistCustomProfiles(w)
		onImported()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Profile %q imported successfully.", profile.Name), w)
	}, w)
}

func (a *App) exportProfileDialog(p model.GCodeProfile, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.ExportProfile(writer.URI().Path(), p); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), w)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Profile %q exported successfully.", p.Name), w)
	}, w)
	d.SetFileName(strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") + "_profile.json")
	d.Show()
}

// persistCustomProfiles writes model.CustomProfiles next to the app config.
func (a *App) persistCustomProfiles(w fyne.Window) {
	if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), model.CustomProfiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), w)
	}
}

// splitLines splits text into trimmed, non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
