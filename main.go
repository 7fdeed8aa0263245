// This file is part of the program "noko".
package main

import (
	"flag"
	"log"
	"os"
	"os/exec"

	"github.com/FoxMoss/DoteWM/internal/compositor"
	"github.com/FoxMoss/DoteWM/internal/ipc"
)

// shellHostFlag is the path to the browser-host process the compositor
// forks at startup. Its path is implementation-chosen (§6.5); noko
// looks it up on $PATH and lets an operator override it for development
// builds.
var shellHostFlag = flag.String("shell-host", "noko-shell", "path to the shell host executable to fork at startup")

func main() {
	log.SetOutput(os.Stderr)
	flag.Parse()

	state := compositor.NewState()

	display, err := compositor.Open(state)
	if err != nil {
		log.Fatalf("noko: couldn't open X display: %v\n", err)
	}

	sock, err := ipc.Bind(ipc.Path("noko"))
	if err != nil {
		log.Fatalf("noko: couldn't bind IPC socket: %v\n", err)
	}
	defer sock.Close()

	reload, err := compositor.NewReloadWatcher()
	if err != nil {
		log.Fatalf("noko: couldn't start reload watcher: %v\n", err)
	}

	shellProc, err := startShellHost(*shellHostFlag)
	if err != nil {
		log.Printf("noko: couldn't start shell host %q: %v\n", *shellHostFlag, err)
	} else {
		defer func() {
			_ = shellProc.Process.Kill()
		}()
	}

	loop := compositor.NewLoop(display, state, sock, reload, compositor.ExecSpawner{})

	log.Printf("noko: running\n")
	if err := loop.Run(); err != nil {
		log.Fatalf("noko: event loop exited: %v\n", err)
	}
}

// startShellHost forks the shell bridge/scheme-handler host process,
// pointing it at this X display the same way the original forked its CEF
// host (§6.5): the child inherits the environment, including DISPLAY,
// unmodified.
func startShellHost(path string) (*exec.Cmd, error) {
	cmd := exec.Command(path)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
