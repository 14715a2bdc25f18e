package browsecmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lightboxd/lightbox/pkg/cliui"
	"github.com/lightboxd/lightbox/pkg/cluster"
	"github.com/lightboxd/lightbox/pkg/library"
	"github.com/lightboxd/lightbox/pkg/logger"
	"github.com/lightboxd/lightbox/pkg/search"
	sourceutils "github.com/lightboxd/lightbox/pkg/source/utils"
	"github.com/lightboxd/lightbox/pkg/utils"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type browseTab int

const (
	tabLoad browseTab = iota
	tabSearch
	tabCluster
)

var tabNames = []string{"Load", "Search", "Cluster"}

var (
	browseTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	browseTabStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 2)
	browseActiveTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true).Padding(0, 2)
	browseMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	browseSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	browseGroupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	browseErrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	browseOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	browseKValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	browseDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

type browseKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Run     key.Binding
	IncK    key.Binding
	DecK    key.Binding
	Quit    key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Run, k.IncK, k.DecK, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextTab, k.PrevTab, k.Run}, {k.IncK, k.DecK, k.Quit}}
}

func defaultKeyMap() browseKeyMap {
	return browseKeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Run:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		IncK:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more clusters")),
		DecK:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer clusters")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
	}
}

type loadDoneMsg struct {
	path    string
	summary library.LoadSummary
	err     error
}

type searchDoneMsg struct {
	output *search.Output
	err    error
}

type clusterDoneMsg struct {
	groups []cluster.Group
	err    error
}

type browseModel struct {
	ctx context.Context
	lib *library.Library
	smb smbSettings

	tab     browseTab
	busy    bool
	status  string
	lastErr error

	pathInput  textinput.Model
	queryInput textinput.Model
	k          int

	results []search.Result
	groups  []cluster.Group

	spin   spinner.Model
	keys   browseKeyMap
	help   help.Model
	width  int
	height int
}

func runBrowseTUI(ctx context.Context, lib *library.Library, smb smbSettings) error {
	program := bubbletea.NewProgram(newBrowseModel(ctx, lib, smb),
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func newBrowseModel(ctx context.Context, lib *library.Library, smb smbSettings) browseModel {
	pathInput := textinput.New()
	pathInput.Placeholder = "/photos or smb://server/share/folder"
	pathInput.CharLimit = 512
	pathInput.Width = 60
	pathInput.Focus()

	queryInput := textinput.New()
	queryInput.Placeholder = "a dog on a beach"
	queryInput.CharLimit = 256
	queryInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return browseModel{
		ctx:        ctx,
		lib:        lib,
		smb:        smb,
		tab:        tabLoad,
		pathInput:  pathInput,
		queryInput: queryInput,
		k:          cluster.DefaultK,
		spin:       spin,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

func (m browseModel) Init() bubbletea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case loadDoneMsg:
		m.busy = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Loaded %s: %s", msg.path, msg.summary.String())
			m.results = nil
			m.groups = nil
		}
		return m, nil
	case searchDoneMsg:
		m.busy = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.results = msg.output.Results
			m.status = fmt.Sprintf("%d results for %q", msg.output.Count, msg.output.Query)
		}
		return m, nil
	case clusterDoneMsg:
		m.busy = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.groups = msg.groups
			m.status = fmt.Sprintf("%d clusters over %d images", len(msg.groups), m.lib.Count())
		}
		return m, nil
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m browseModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1), nil
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1), nil
	case key.Matches(msg, m.keys.Run):
		return m.runAction()
	}

	if m.busy {
		return m, nil
	}

	switch m.tab {
	case tabLoad:
		var cmd bubbletea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	case tabSearch:
		var cmd bubbletea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		return m, cmd
	case tabCluster:
		switch {
		case key.Matches(msg, m.keys.IncK):
			if m.k < cluster.MaxK {
				m.k++
			}
		case key.Matches(msg, m.keys.DecK):
			if m.k > cluster.MinK {
				m.k--
			}
		}
	}

	return m, nil
}

func (m browseModel) switchTab(direction int) browseModel {
	m.tab = browseTab((int(m.tab) + direction + len(tabNames)) % len(tabNames))

	m.pathInput.Blur()
	m.queryInput.Blur()
	switch m.tab {
	case tabLoad:
		m.pathInput.Focus()
	case tabSearch:
		m.queryInput.Focus()
	}

	return m
}

func (m browseModel) runAction() (bubbletea.Model, bubbletea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch m.tab {
	case tabLoad:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		m.busy = true
		m.lastErr = nil
		m.status = "Loading " + path
		return m, bubbletea.Batch(m.spin.Tick, m.loadCmd(path))
	case tabSearch:
		query := strings.TrimSpace(m.queryInput.Value())
		if query == "" {
			return m, nil
		}
		m.busy = true
		m.lastErr = nil
		m.status = "Searching"
		return m, bubbletea.Batch(m.spin.Tick, m.searchCmd(query))
	case tabCluster:
		m.busy = true
		m.lastErr = nil
		m.status = "Clustering"
		return m, bubbletea.Batch(m.spin.Tick, m.clusterCmd(m.k))
	}

	return m, nil
}

func (m browseModel) loadCmd(path string) bubbletea.Cmd {
	ctx, lib, smb := m.ctx, m.lib, m.smb
	return func() bubbletea.Msg {
		src, err := sourceutils.NewSource(&sourceutils.NewSourceOpts{
			Path:          path,
			SMBUsername:   smb.username,
			SMBPassword:   smb.password,
			SMBDomain:     smb.domain,
			SMBClientName: smb.clientName,
			SMBPort:       smb.port,
			Logger:        logger.Nop(),
		})
		if err != nil {
			return loadDoneMsg{path: path, err: err}
		}
		defer src.Close()

		summary, err := lib.Load(ctx, src)
		if err != nil {
			return loadDoneMsg{path: path, err: err}
		}
		return loadDoneMsg{path: path, summary: summary}
	}
}

func (m browseModel) searchCmd(query string) bubbletea.Cmd {
	ctx, lib := m.ctx, m.lib
	return func() bubbletea.Msg {
		// An empty library searches fine and yields zero results.
		output, err := search.Search(ctx, query, search.DefaultTopK,
			lib.Embedder(), lib.Driver(), logger.Nop())
		if err != nil {
			return searchDoneMsg{err: err}
		}
		return searchDoneMsg{output: output}
	}
}

func (m browseModel) clusterCmd(k int) bubbletea.Cmd {
	ctx, lib := m.ctx, m.lib
	return func() bubbletea.Msg {
		if lib.Count() == 0 {
			return clusterDoneMsg{err: fmt.Errorf("no images loaded; load a folder first")}
		}

		docs, err := lib.Documents(ctx)
		if err != nil {
			return clusterDoneMsg{err: err}
		}

		groups, err := cluster.Partition(docs, cluster.ClampK(k, lib.Count()), logger.Nop())
		if err != nil {
			return clusterDoneMsg{err: err}
		}
		return clusterDoneMsg{groups: groups}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(browseTitleStyle.Render("lightbox"))
	b.WriteString("  ")
	b.WriteString(browseMutedStyle.Render(fmt.Sprintf("%d images loaded", m.lib.Count())))
	b.WriteString("\n\n")

	for i, name := range tabNames {
		if browseTab(i) == m.tab {
			b.WriteString(browseActiveTab.Render(name))
		} else {
			b.WriteString(browseTabStyle.Render(name))
		}
	}
	b.WriteString("\n")
	b.WriteString(browseDividerStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n\n")

	switch m.tab {
	case tabLoad:
		b.WriteString(m.viewLoad())
	case tabSearch:
		b.WriteString(m.viewSearch())
	case tabCluster:
		b.WriteString(m.viewCluster())
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m browseModel) viewLoad() string {
	var b strings.Builder
	b.WriteString(browseSectionStyle.Render("Folder path or smb:// URL"))
	b.WriteString("\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) viewSearch() string {
	var b strings.Builder
	b.WriteString(browseSectionStyle.Render("Describe the image"))
	b.WriteString("\n")
	b.WriteString(m.queryInput.View())
	b.WriteString("\n\n")

	for i, result := range m.results {
		b.WriteString(cliui.ResultLine(i+1, result.Path, result.Score))
		b.WriteString("\n")
	}

	return b.String()
}

func (m browseModel) viewCluster() string {
	var b strings.Builder
	b.WriteString(browseSectionStyle.Render("Clusters: "))
	b.WriteString(browseKValueStyle.Render(fmt.Sprintf("%d", m.k)))
	b.WriteString(browseMutedStyle.Render("  (+/- to adjust, enter to run)"))
	b.WriteString("\n\n")

	for _, group := range m.groups {
		b.WriteString(browseGroupStyle.Render(fmt.Sprintf("Cluster %d (%d images)", group.Label, len(group.Paths))))
		b.WriteString("\n")
		for _, path := range group.Paths {
			b.WriteString("  " + utils.Truncate(path, 76) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m browseModel) viewStatus() string {
	if m.lastErr != nil {
		return browseErrStyle.Render("error: " + m.lastErr.Error())
	}
	if m.busy {
		return m.spin.View() + " " + browseMutedStyle.Render(m.status)
	}
	if m.status != "" {
		return browseOKStyle.Render(m.status)
	}
	return browseMutedStyle.Render("load a folder to get started")
}
