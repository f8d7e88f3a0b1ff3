// Package tui implements the root Bubble Tea model for zsol.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/pay"
	"github.com/zarlcorp/zsol/internal/wallet"
)

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

// Model is the root TUI model.
type Model struct {
	version  string
	dataDir  string
	firstRun bool

	store    *zstore.Store
	keypairs *zstore.Collection[wallet.Keypair]
	session  *wallet.Session
	client   ledgerClient

	unlocked bool
	cache    *directory.Cache
	dirState dirStatus
	f        flags

	unlock        unlockModel
	landing       landingModel
	auth          authModel
	needsInit     needsInitModel
	explore       exploreModel
	creatorForm   creatorFormModel
	supporterForm supporterFormModel
	profile       profileModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model.
func New(version, dataDir string, client ledgerClient, firstRun bool) Model {
	return Model{
		version:  version,
		dataDir:  dataDir,
		firstRun: firstRun,
		client:   client,
		cache:    directory.NewCache(),
		f:        newFlags(),
		unlock:   newUnlockModel(firstRun),
		landing:  newLandingModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.unlock.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case unlockSubmitMsg:
		return m.openStore(msg.password)

	case connectRequestMsg:
		return m, connectCmd(m.session)

	case connectedMsg:
		return m, fetchDirectoryCmd(m.client)

	case connectErrMsg:
		m.landing, _ = m.landing.Update(msg)
		return m, clearFlashAfter()

	case directoryMsg:
		return m.handleDirectory(msg.dir)

	case directoryMissingMsg:
		m.dirState = dirMissing
		m.needsInit = newNeedsInitModel()
		return m, tea.ClearScreen

	case directoryErrMsg:
		return m.handleDirectoryErr(msg.err)

	case backMsg:
		return m.handleBack()

	case exploreMsg:
		m.f.exploring = true
		m.explore = newExploreModel(m.cache.Creators())
		return m, tea.Batch(m.explore.Init(), tea.ClearScreen)

	case viewProfileMsg:
		return m.openProfile(msg.index)

	case startCreatorFormMsg:
		m.f.creatingCreator = true
		m.creatorForm = newCreatorFormModel()
		return m, tea.Batch(m.creatorForm.Init(), tea.ClearScreen)

	case startSupporterFormMsg:
		m.f.creatingSupporter = true
		m.supporterForm = newSupporterFormModel()
		return m, tea.Batch(m.supporterForm.Init(), tea.ClearScreen)

	case createCreatorRequestMsg:
		return m.handleCreateCreator(msg)

	case createSupporterRequestMsg:
		return m, createSupporterCmd(m.client, m.session, msg.name)

	case initializeRequestMsg:
		return m, initializeCmd(m.client, m.session)

	case submittedMsg:
		return m.handleSubmitted(msg)

	case refreshRequestMsg:
		return m, fetchDirectoryCmd(m.client)

	case sendPaymentRequestMsg:
		return m.startPayment(msg)

	case payStatusMsg:
		var cmd tea.Cmd
		m.profile, cmd = m.profile.Update(msg)
		return m, tea.Batch(cmd, watchPayStatus(msg.ch))

	case payResultMsg:
		var cmd tea.Cmd
		m.profile, cmd = m.profile.Update(msg)
		if msg.err == nil {
			// the feed should show the new message
			return m, tea.Batch(cmd, fetchDirectoryCmd(m.client))
		}
		return m, cmd
	}

	return m.updateActive(msg)
}

func (m Model) active() viewID {
	connected := m.session != nil && m.session.Connected()
	return deriveScreen(m.unlocked, connected, m.dirState, m.f)
}

func (m Model) View() string {
	active := m.active()

	// unlock and landing include the logo — render directly
	switch active {
	case viewUnlock:
		return m.unlock.View()
	case viewLanding:
		return m.landing.View()
	}

	var content string
	switch active {
	case viewAuthChoice:
		content = m.auth.View()
	case viewNeedsInit:
		content = m.needsInit.View()
	case viewExplore:
		content = m.explore.View()
	case viewCreatorForm:
		content = m.creatorForm.View()
	case viewSupporterForm:
		content = m.supporterForm.View()
	case viewProfile:
		content = m.profile.View()
	}

	header := zstyle.RenderHeader("zsol", viewTitle(active), accent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(active))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewAuthChoice:
		return "Who Are You?"
	case viewNeedsInit:
		return "Setup"
	case viewExplore:
		return "Explore Creators"
	case viewCreatorForm:
		return "Become a Creator"
	case viewSupporterForm:
		return "Become a Supporter"
	case viewProfile:
		return "Creator"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewAuthChoice:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "select"},
			{Key: "r", Desc: "refresh"},
			{Key: "q", Desc: "quit"},
		}
	case viewNeedsInit:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "initialize"},
			{Key: "r", Desc: "refresh"},
			{Key: "q", Desc: "quit"},
		}
	case viewExplore:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "/", Desc: "search"},
			{Key: "enter", Desc: "view"},
			{Key: "r", Desc: "refresh"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	case viewCreatorForm, viewSupporterForm:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next"},
			{Key: "enter", Desc: "submit"},
			{Key: "esc", Desc: "cancel"},
		}
	case viewProfile:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next field"},
			{Key: "enter", Desc: "pay"},
			{Key: "esc", Desc: "back"},
		}
	}
	return nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active() {
	case viewUnlock:
		m.unlock, cmd = m.unlock.Update(msg)
	case viewLanding:
		m.landing, cmd = m.landing.Update(msg)
	case viewAuthChoice:
		m.auth, cmd = m.auth.Update(msg)
	case viewNeedsInit:
		m.needsInit, cmd = m.needsInit.Update(msg)
	case viewExplore:
		m.explore, cmd = m.explore.Update(msg)
	case viewCreatorForm:
		m.creatorForm, cmd = m.creatorForm.Update(msg)
	case viewSupporterForm:
		m.supporterForm, cmd = m.supporterForm.Update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.Update(msg)
	}

	return m, cmd
}

func (m Model) openStore(password string) (tea.Model, tea.Cmd) {
	if err := os.MkdirAll(m.dataDir, 0o700); err != nil {
		m.unlock, _ = m.unlock.Update(unlockErrMsg{
			err: fmt.Errorf("create data dir: %w", err),
		})
		return m, nil
	}

	fsys := zfilesystem.NewOSFileSystem(m.dataDir)
	s, err := zstore.Open(fsys, []byte(password))
	if err != nil {
		m.unlock, _ = m.unlock.Update(unlockErrMsg{err: err})
		return m, nil
	}

	col, err := zstore.NewCollection[wallet.Keypair](s, "keypairs")
	if err != nil {
		s.Close()
		m.unlock, _ = m.unlock.Update(unlockErrMsg{err: err})
		return m, nil
	}

	m.store = s
	m.keypairs = col
	m.session = wallet.NewSession(wallet.NewKeystore(col))
	m.unlocked = true
	return m, tea.Batch(autoConnectCmd(m.session), tea.ClearScreen)
}

// handleDirectory installs a fresh snapshot and recomputes everything
// derived from the caller's place in it.
func (m Model) handleDirectory(d directory.Directory) (tea.Model, tea.Cmd) {
	m.cache.Replace(d)
	m.dirState = dirReady

	me := m.session.Identity()
	m.f.ownCreatorIndex = m.cache.FindCreatorIndexByAddress(me)
	m.f.hasSupporter = false
	for _, s := range d.Supporters {
		if s.UserAddress == me {
			m.f.hasSupporter = true
			break
		}
	}

	m.auth = newAuthModel(m.f.hasSupporter)

	// creators land on their own page
	if m.f.ownCreatorIndex >= 0 && !m.f.intentSet() {
		m.f.viewing = true
		m.f.selectedCreator = m.f.ownCreatorIndex
	}

	if m.f.exploring {
		m.explore = newExploreModel(m.cache.Creators())
	}
	if m.f.viewing {
		// refresh the feed in place; a rebuild would drop pay state
		if creator, ok := m.cache.Creator(m.f.selectedCreator); ok && creator.UserAddress == m.profile.creator.UserAddress {
			m.profile.feed = m.buildFeed(creator)
		} else {
			m.profile = m.buildProfile(m.f.selectedCreator)
		}
	}

	return m, tea.ClearScreen
}

// intentSet reports whether the user has already navigated somewhere.
func (f flags) intentSet() bool {
	return f.exploring || f.creatingCreator || f.creatingSupporter || f.viewing
}

// handleDirectoryErr flashes the failure on the active screen. The last
// snapshot, if any, stays in place.
func (m Model) handleDirectoryErr(err error) (tea.Model, tea.Cmd) {
	flash := "refresh: " + err.Error()

	switch m.active() {
	case viewLanding:
		m.landing.connecting = false
		m.landing.flash = flash
	case viewAuthChoice:
		m.auth.flash = flash
	case viewNeedsInit:
		m.needsInit.running = false
		m.needsInit.flash = flash
	case viewExplore:
		m.explore.flash = flash
	case viewProfile:
		m.profile.flash = flash
		m.profile.flashErr = true
	}

	return m, clearFlashAfter()
}

func (m Model) handleBack() (tea.Model, tea.Cmd) {
	viewingOwn := m.f.viewing && m.f.selectedCreator == m.f.ownCreatorIndex

	m.f.exploring = false
	m.f.creatingCreator = false
	m.f.creatingSupporter = false
	m.f.viewing = false

	// a creator's home is their own page, unless they just backed out of it
	if m.f.ownCreatorIndex >= 0 && !viewingOwn {
		return m.openProfile(m.f.ownCreatorIndex)
	}

	return m, tea.ClearScreen
}

func (m Model) openProfile(index int) (tea.Model, tea.Cmd) {
	if _, ok := m.cache.Creator(index); !ok {
		return m, nil
	}

	m.f.exploring = false
	m.f.viewing = true
	m.f.selectedCreator = index
	m.profile = m.buildProfile(index)
	return m, tea.Batch(m.profile.Init(), tea.ClearScreen)
}

func (m Model) buildProfile(index int) profileModel {
	creator, _ := m.cache.Creator(index)
	canPay := m.f.hasSupporter && index != m.f.ownCreatorIndex
	return newProfileModel(creator, m.buildFeed(creator), canPay)
}

func (m Model) buildFeed(creator directory.Creator) []feedEntry {
	msgs := m.cache.MessagesFor(creator.UserAddress)
	feed := make([]feedEntry, 0, len(msgs))
	for _, msg := range msgs {
		feed = append(feed, feedEntry{
			who:    m.cache.DisplayNameOf(msg.SupporterAddress),
			amount: msg.Amount.Sol(),
			text:   msg.Message,
		})
	}
	return feed
}

// handleCreateCreator checks the cached directory before submitting; the
// program enforces both rules on-chain, this just fails faster.
func (m Model) handleCreateCreator(msg createCreatorRequestMsg) (tea.Model, tea.Cmd) {
	if m.cache.UsernameTaken(msg.username) {
		m.creatorForm.submitting = false
		m.creatorForm.flash = "username already taken"
		return m, clearFlashAfter()
	}

	if m.cache.HasCreatorAccount(m.session.Identity()) {
		m.creatorForm.submitting = false
		m.creatorForm.flash = "you can only have one creator account"
		return m, clearFlashAfter()
	}

	return m, createCreatorCmd(m.client, m.session, msg.username, msg.name)
}

func (m Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case "creator":
		m.f.creatingCreator = false
	case "supporter":
		m.f.creatingSupporter = false
	}

	// the refetch moves the screen forward
	return m, fetchDirectoryCmd(m.client)
}

func (m Model) startPayment(msg sendPaymentRequestMsg) (tea.Model, tea.Cmd) {
	creator, ok := m.cache.Creator(m.f.selectedCreator)
	if !ok {
		return m, nil
	}

	req := pay.Request{
		Creator: creator.UserAddress,
		Message: msg.message,
		Amount:  msg.amount,
	}

	ch := make(chan pay.Status, 8)
	return m, tea.Batch(payCmd(m.client, m.session, req, ch), watchPayStatus(ch))
}

// Close cleans up resources. Call after the program exits.
func (m Model) Close() {
	if m.store != nil {
		m.store.Close()
	}
}
