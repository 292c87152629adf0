package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pomedit/pkg/pom"
)

// skipDirs are never searched for modules.
var skipDirs = map[string]bool{
	".git":         true,
	".idea":        true,
	"target":       true,
	"node_modules": true,
}

// Module is a pom.xml found below the top-level directory.
type Module struct {
	Path       string // relative to the search root
	GroupID    string
	ArtifactID string
	Packaging  string
}

// findModules lists every parseable pom.xml under root, sorted by path.
func findModules(root string) ([]Module, error) {
	var mods []Module
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != defaultTarget {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		doc, err := pom.ParseDocument(path, data)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		c := doc.Coordinate()
		mods = append(mods, Module{
			Path:       filepath.ToSlash(rel),
			GroupID:    c.GroupID,
			ArtifactID: c.ArtifactID,
			Packaging:  doc.Packaging(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Path < mods[j].Path })
	return mods, nil
}

// ModuleListModel picks the POM to edit. Aggregator POMs (packaging pom)
// are shown but only selectable when AllowPom is set, which the add
// command does for import-scoped dependencies.
type ModuleListModel struct {
	Modules  []Module
	Cursor   int
	Selected *Module
	Height   int
	Offset   int
	AllowPom bool
}

func NewModuleListModel(mods []Module, allowPom bool) ModuleListModel {
	return ModuleListModel{Modules: mods, Height: 15, AllowPom: allowPom}
}

func (m ModuleListModel) selectable(i int) bool {
	return m.AllowPom || m.Modules[i].Packaging != "pom"
}

// move shifts the cursor by delta and scrolls the window to keep it visible.
func (m *ModuleListModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.Modules)-1, 0))
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ModuleListModel) Init() tea.Cmd { return nil }

func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.Modules))
		case "end", "G":
			m.move(len(m.Modules))
		case "enter":
			if len(m.Modules) > 0 && m.selectable(m.Cursor) {
				mod := m.Modules[m.Cursor]
				m.Selected = &mod
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ModuleListModel) View() string {
	end := min(m.Offset+m.Height, len(m.Modules))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		mod := m.Modules[i]
		marker := " "
		if i == m.Cursor {
			marker = "▸"
		}
		packaging := mod.Packaging
		if packaging == "" {
			packaging = pom.DefaultType
		}
		rows = append(rows, []string{marker, mod.Path, mod.ArtifactID, packaging})
	}

	t := newTable([]string{"", "Path", "Artifact", "Packaging"}, rows, -1).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			switch idx := m.Offset + row; {
			case idx >= len(m.Modules):
				return styleTableCell
			case !m.selectable(idx):
				return styleTableCell.Foreground(colorFaint)
			case idx == m.Cursor:
				return styleTableCell.Foreground(colorAdded).Bold(true)
			default:
				return styleTableCell.Foreground(colorValue)
			}
		})

	var b strings.Builder
	b.WriteString(styleTitle.Render("Select Module") + "\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit") + "\n\n")
	b.WriteString(t.Render() + "\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Modules))))
	return b.String()
}

// pickModule runs the module picker over root. It returns "" when the user
// quits without choosing.
func pickModule(root string, allowPom bool) (string, error) {
	mods, err := findModules(root)
	if err != nil {
		return "", err
	}
	if len(mods) == 0 {
		return "", fmt.Errorf("no pom.xml found under %s", root)
	}

	final, err := tea.NewProgram(NewModuleListModel(mods, allowPom)).Run()
	if err != nil {
		return "", fmt.Errorf("module picker: %w", err)
	}
	m, ok := final.(ModuleListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return filepath.Join(root, filepath.FromSlash(m.Selected.Path)), nil
}
