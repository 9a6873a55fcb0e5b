package deploy

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creack/pty"
)

// Runner drives a provider CLI (netlify, vercel, rsync, …) inside a
// PTY. Publish CLIs render progress bars and prompt for logins, so a
// plain pipe is not enough — the studio shows the PTY in an embedded
// terminal panel and forwards keystrokes back here.
type Runner struct {
	mu      sync.Mutex
	ptmx    *os.File
	cmd     *exec.Cmd
	onData  func(data []byte)
	onExit  func(exitCode int)
	running bool
	// Store pending size for when Run is called
	pendingCols uint16
	pendingRows uint16
	shellPath   string // user's full login shell PATH (resolved once)
}

// resolveBinary finds the absolute path for a provider CLI binary.
// macOS GUI apps (like Wails) don't inherit the shell's $PATH,
// so we probe common installation paths as a fallback.
func resolveBinary(name string) string {
	// If it's already an absolute path, use it directly
	if filepath.IsAbs(name) {
		return name
	}
	// Try the process PATH first
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	// Probe common macOS paths
	candidates := []string{
		filepath.Join("/opt/homebrew/bin", name),          // Apple Silicon Homebrew
		filepath.Join("/usr/local/bin", name),             // Intel Homebrew / manual installs
		filepath.Join("/run/current-system/sw/bin", name), // NixOS
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".local/bin", name),
			filepath.Join(home, ".npm-global/bin", name), // npm-installed provider CLIs
		)
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	// Last resort: return the name as-is and let exec.Command fail with a clear error
	return name
}

// resolveShellPath gets the user's full login shell PATH.
// macOS GUI apps (Wails) inherit a minimal PATH; this runs the user's
// login shell to capture the complete PATH so provider CLIs can find
// node, git, and whatever else they shell out to.
func resolveShellPath() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/zsh"
	}
	out, err := exec.Command(shell, "-lc", "echo $PATH").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// New creates a publish runner. onData receives raw PTY output for the
// terminal panel; onExit receives the process exit code.
func New(onData func(data []byte), onExit func(exitCode int)) *Runner {
	return &Runner{
		onData:      onData,
		onExit:      onExit,
		pendingCols: 80,
		pendingRows: 24,
		shellPath:   resolveShellPath(),
	}
}

// Run starts the provider command in dir. If a run is already active,
// it is killed first.
func (r *Runner) Run(dir, binary string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.closeInternal()
	}

	cmd := exec.Command(resolveBinary(binary), args...)
	cmd.Dir = dir

	// Build environment: start from current env, override PATH with the
	// user's full login shell PATH so the CLI finds its toolchain.
	env := os.Environ()
	if r.shellPath != "" {
		replaced := false
		for i, e := range env {
			if strings.HasPrefix(e, "PATH=") {
				env[i] = "PATH=" + r.shellPath
				replaced = true
				break
			}
		}
		if !replaced {
			env = append(env, "PATH="+r.shellPath)
		}
	}
	env = append(env,
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	cmd.Env = env

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: r.pendingCols,
		Rows: r.pendingRows,
	})
	if err != nil {
		return fmt.Errorf("start pty: %w", err)
	}

	r.ptmx = ptmx
	r.cmd = cmd
	r.running = true

	// Read PTY output → stream to the terminal panel
	go func() {
		buf := make([]byte, 32768)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				if r.onData != nil {
					r.onData(data)
				}
			}
			if err != nil {
				break
			}
		}

		err := cmd.Wait()
		exitCode := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if err != nil {
			exitCode = -1
		}

		r.mu.Lock()
		r.running = false
		r.ptmx = nil
		r.cmd = nil
		r.mu.Unlock()
		if r.onExit != nil {
			r.onExit(exitCode)
		}
	}()

	return nil
}

// Write sends input data to the PTY (keystrokes from the terminal panel,
// e.g. answering a provider login prompt).
func (r *Runner) Write(data string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.ptmx == nil {
		return fmt.Errorf("no active publish run")
	}

	_, err := io.WriteString(r.ptmx, data)
	return err
}

// Resize updates the PTY window size.
func (r *Runner) Resize(cols, rows uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Always store for the next Run call
	r.pendingCols = cols
	r.pendingRows = rows

	if !r.running || r.ptmx == nil {
		return nil
	}

	return pty.Setsize(r.ptmx, &pty.Winsize{
		Cols: cols,
		Rows: rows,
	})
}

// IsRunning returns whether a publish run is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Close kills the current run, if any.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeInternal()
}

func (r *Runner) closeInternal() {
	if r.ptmx != nil {
		r.ptmx.Close()
		r.ptmx = nil
	}
	if r.cmd != nil && r.cmd.Process != nil {
		// The reader goroutine owns Wait; killing unblocks it.
		r.cmd.Process.Kill()
		r.cmd = nil
	}
	r.running = false
}
