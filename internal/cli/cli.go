// Package cli implements zsol's command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/zsol/internal/config"
	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/ledger"
	"github.com/zarlcorp/zsol/internal/wallet"
	"golang.org/x/term"
)

const fetchTimeout = 30 * time.Second

// DataDir returns the default data directory for zsol.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zsol"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zsol"
	}
	return home + "/.local/share/zsol"
}

// ReadPassword prompts for a password on stderr and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("keystore password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// IsFirstRun checks whether the keystore has been initialized.
func IsFirstRun(dir string) bool {
	_, err := os.Stat(dir + "/salt")
	return err != nil
}

// OpenKeystore prompts for a password and opens the encrypted keypair
// collection.
func OpenKeystore(dir string) (*zstore.Store, *zstore.Collection[wallet.Keypair], error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	var pass string
	var err error
	if IsFirstRun(dir) {
		pass, err = ReadNewPassword(os.Stderr)
	} else {
		pass, err = ReadPassword("keystore password: ", os.Stderr)
	}
	if err != nil {
		return nil, nil, err
	}

	fsys := zfilesystem.NewOSFileSystem(dir)
	s, err := zstore.Open(fsys, []byte(pass))
	if err != nil {
		return nil, nil, err
	}

	col, err := zstore.NewCollection[wallet.Keypair](s, "keypairs")
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	return s, col, nil
}

func fetchDirectory() (directory.Directory, error) {
	cfg, err := config.Load("")
	if err != nil {
		return directory.Directory{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	return ledger.NewClient(cfg.LedgerConfig()).FetchDirectory(ctx)
}

// CmdCreators lists all registered creators.
func CmdCreators(args []string) {
	asJSON := hasFlag(args, "--json")

	d, err := fetchDirectory()
	if err != nil {
		fail(err)
	}

	if asJSON {
		printJSON(d.Creators)
		return
	}

	if len(d.Creators) == 0 {
		fmt.Println("no creators registered")
		return
	}

	for _, c := range d.Creators {
		fmt.Printf("  %-16s %-24s %s\n", c.Username, c.Name, c.UserAddress)
	}
}

// CmdMessages lists the message feed for one creator by username.
func CmdMessages(args []string) {
	asJSON := hasFlag(args, "--json")

	var username string
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			username = a
			break
		}
	}
	if username == "" {
		fmt.Fprintln(os.Stderr, "usage: zsol messages <username> [--json]")
		os.Exit(1)
	}

	d, err := fetchDirectory()
	if err != nil {
		fail(err)
	}

	cache := directory.NewCache()
	cache.Replace(d)

	idx := cache.FindCreatorIndexByUsername(username)
	if idx < 0 {
		fmt.Fprintf(os.Stderr, "zsol: username %q not found\n", username)
		os.Exit(1)
	}

	creator, _ := cache.Creator(idx)
	msgs := cache.MessagesFor(creator.UserAddress)

	if asJSON {
		printJSON(msgs)
		return
	}

	if len(msgs) == 0 {
		fmt.Printf("no messages for %s yet\n", creator.Name)
		return
	}

	for _, m := range msgs {
		fmt.Printf("  %s bought %s SOL\n    %s\n",
			cache.DisplayNameOf(m.SupporterAddress), m.Amount.Sol(), m.Message)
	}
}

// CmdAddress prints the local wallet address, creating the keypair on
// first use.
func CmdAddress() {
	s, col, err := OpenKeystore(DataDir())
	if err != nil {
		fail(err)
	}
	defer s.Close()

	session := wallet.NewSession(wallet.NewKeystore(col))
	addr, err := session.Connect(context.Background())
	if err != nil {
		fail(err)
	}

	fmt.Println(addr)
}

func fail(err error) {
	if errors.Is(err, ledger.ErrNotInitialized) {
		fmt.Fprintln(os.Stderr, "zsol: directory account not initialized yet")
	} else {
		fmt.Fprintf(os.Stderr, "zsol: %v\n", err)
	}
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "zsol: encode json: %v\n", err)
		os.Exit(1)
	}
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}
