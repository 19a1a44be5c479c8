package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// cliDeps are the system facing parts of the command, swapped out in tests
type cliDeps struct {
	newKeyboard func(log *LogManager) (Keyboard, error)
	newTrigger  func(log *LogManager) TriggerWaiter
}

func defaultDeps() cliDeps {
	return cliDeps{
		newKeyboard: newSystemKeyboard,
		newTrigger:  NewHookTrigger,
	}
}

type rootOptions struct {
	file         string
	keys         string
	configPath   string
	logFile      string
	trigger      string
	delay        float64
	pause        float64
	withSpaces   bool
	withTabs     bool
	withNewlines bool
	keepNumLock  bool
	dryRun       bool
	listKeys     bool
	repeat       bool
	verbose      bool
}

// NewRootCmd creates the keystroker command
func NewRootCmd(deps cliDeps) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "keystroker",
		Short: "Type a key string into the active window",
		Long: `Keystroker sends keystrokes to the window that has focus.

Letters, digits and punctuation are typed as they are. Special keys:
  +  SHIFT      ^  CONTROL      %  ALT      ~  ENTER
  (ab)          hold the modifiers before the group while typing ab
  {NAME}        press a named key, {NAME n} repeats it n times
  {PAUSE s}     wait s seconds
  {+} {^} {%}   type the literal character

Example:
  keystroker -d 2 -k "+hello{SPACE}+world+1"`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, deps, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "read the key string from a file")
	flags.StringVarP(&opts.keys, "keys", "k", "", "key string to send")
	flags.Float64VarP(&opts.delay, "delay", "d", 0, "seconds to wait before sending")
	flags.Float64VarP(&opts.pause, "pause", "p", 0, "seconds to wait after each key release")
	flags.BoolVar(&opts.withSpaces, "with-spaces", false, "type spaces instead of dropping them")
	flags.BoolVar(&opts.withTabs, "with-tabs", false, "type tabs instead of dropping them")
	flags.BoolVar(&opts.withNewlines, "with-newlines", false, "type newlines instead of dropping them")
	flags.BoolVar(&opts.keepNumLock, "keep-numlock", false, "leave NUMLOCK alone while sending")
	flags.StringVar(&opts.trigger, "trigger", "", "wait for a global hotkey such as ctrl+shift+f9 before sending")
	flags.BoolVar(&opts.repeat, "repeat", false, "keep running and send again on every trigger press")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the key events instead of sending them")
	flags.BoolVar(&opts.listKeys, "list-keys", false, "print the key names usable in {NAME}")
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default is ./"+defaultConfigPath+" when present)")
	flags.StringVar(&opts.logFile, "log-file", "", "also write the log to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	rootCmd.MarkFlagsMutuallyExclusive("file", "keys", "list-keys")
	rootCmd.MarkFlagsOneRequired("file", "keys", "list-keys")

	return rootCmd
}

func runRoot(cmd *cobra.Command, deps cliDeps, opts *rootOptions) error {
	if opts.listKeys {
		for _, name := range KeyNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	config, err := LoadConfigFile(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, config, opts)
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := NewLogManager(cmd.ErrOrStderr(), config.Logging.File, config.Logging.Level)
	if err != nil {
		return err
	}
	defer log.Close()
	if path := log.GetLogFilePath(); path != "" {
		log.LogDebug("Logging to file", "path", path)
	}

	notifier := NewNotificationManager(config, log)
	fail := func(msg string, err error) error {
		return report(log, notifier, msg, err)
	}

	keys, err := readKeys(opts)
	if err != nil {
		return fail("Failed to read keys", err)
	}
	sendOpts := config.SendOptions()

	if opts.dryRun {
		events, err := ParseKeys(keys, sendOpts.ParseOptions(), USLayout)
		if err != nil {
			return err
		}
		for _, ev := range events {
			fmt.Fprintln(cmd.OutOrStdout(), ev)
		}
		return nil
	}

	kb, err := deps.newKeyboard(log)
	if err != nil {
		return fail("Failed to open keyboard", err)
	}

	// parse first so a typo never waits for the trigger
	events, err := ParseKeys(keys, sendOpts.ParseOptions(), kb)
	if err != nil {
		return fail("Invalid key string", err)
	}
	log.LogDebug("Parsed key string", "events", fmt.Sprint(len(events)))

	d := &dispatcher{
		kb:       kb,
		events:   events,
		opts:     sendOpts,
		delay:    seconds(config.Keys.Delay),
		lockPath: config.Lock.Path,
		retry: NewRetryManager(config.Lock.RetryAttempts,
			time.Duration(config.Lock.RetryDelayMS)*time.Millisecond, log),
		log:      log,
		notifier: notifier,
	}

	ctx := cmd.Context()
	if config.Trigger.Hotkey == "" {
		return d.dispatch(ctx)
	}

	hk, err := ParseTriggerHotkey(config.Trigger.Hotkey)
	if err != nil {
		return err
	}
	trigger := deps.newTrigger(log)
	if !config.Trigger.Repeat {
		if err := trigger.Wait(ctx, hk); err != nil {
			return fail("Trigger hotkey wait failed", err)
		}
		return d.dispatch(ctx)
	}

	var watcher *KeyFileWatcher
	if opts.file != "" {
		watcher, err = WatchKeyFile(opts.file, log)
		if err != nil {
			log.LogWarning("Key file changes will not be picked up", "error", err.Error())
		} else {
			defer watcher.Close()
		}
	}
	return d.repeat(ctx, trigger, hk, func() {
		if watcher == nil || !watcher.Changed() {
			return
		}
		d.reload(opts)
	})
}

// dispatcher sends one parsed key string, possibly many times
type dispatcher struct {
	kb       Keyboard
	events   []KeyEvent
	opts     SendOptions
	delay    time.Duration
	lockPath string
	retry    *RetryManager
	log      *LogManager
	notifier *NotificationManager
}

// dispatch waits the delay, then sends the events under the dispatch lock
func (d *dispatcher) dispatch(ctx context.Context) error {
	if d.delay > 0 {
		d.log.LogInfo("Waiting before sending", "delay", d.delay.String())
		if err := sleepContext(ctx, d.delay); err != nil {
			return err
		}
	}

	lock := NewDispatchLock(d.lockPath)
	if err := d.retry.Retry(ctx, lock.TryLock); err != nil {
		if errors.Is(err, ErrLockHeld) {
			d.logLockOwner(lock)
		}
		return d.fail("Failed to acquire dispatch lock", err)
	}
	defer lock.Release()

	if err := SendEvents(ctx, d.kb, d.events, d.opts); err != nil {
		return d.fail("Failed to send keys", err)
	}

	d.log.LogInfo("Keys sent", "events", fmt.Sprint(len(d.events)))
	d.notifier.NotifySuccess(fmt.Sprintf("Sent %d key events", len(d.events)))
	return nil
}

func (d *dispatcher) logLockOwner(lock *DispatchLock) {
	pid, alive, err := lock.Owner()
	if err != nil {
		d.log.LogWarning("Could not read dispatch lock owner", "path", d.lockPath, "error", err.Error())
		return
	}
	d.log.LogWarning("Dispatch lock held by another process",
		"pid", fmt.Sprint(pid), "alive", fmt.Sprint(alive), "path", d.lockPath)
}

// repeat dispatches on every trigger press until ctx is done. Failed
// dispatches are reported and the loop keeps going.
func (d *dispatcher) repeat(ctx context.Context, trigger TriggerWaiter, hk *TriggerHotkey, beforeSend func()) error {
	d.log.LogInfo("Repeat mode, press Ctrl+C to quit", "hotkey", hk.Name)
	for {
		if err := trigger.Wait(ctx, hk); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return d.fail("Trigger hotkey wait failed", err)
		}
		beforeSend()
		if err := d.dispatch(ctx); err != nil && ctx.Err() != nil {
			return nil
		}
	}
}

// reload re-reads the key file, keeping the previous events when the new
// content does not parse
func (d *dispatcher) reload(opts *rootOptions) {
	keys, err := readKeys(opts)
	if err != nil {
		d.fail("Failed to reload key file", err)
		return
	}
	events, err := ParseKeys(keys, d.opts.ParseOptions(), d.kb)
	if err != nil {
		d.fail("Reloaded key file is invalid, keeping the previous keys", err)
		return
	}
	d.events = events
	d.log.LogInfo("Key file reloaded", "events", fmt.Sprint(len(events)))
}

func (d *dispatcher) fail(msg string, err error) error {
	return report(d.log, d.notifier, msg, err)
}

// report logs err, raises an error notification and returns err unchanged
func report(log *LogManager, notifier *NotificationManager, msg string, err error) error {
	log.LogError(msg, err)
	notifier.NotifyError(fmt.Sprintf("%s: %v", msg, err))
	return err
}

// applyFlags overrides config values with the flags given on the command line
func applyFlags(cmd *cobra.Command, config *Config, opts *rootOptions) {
	flags := cmd.Flags()
	if flags.Changed("delay") {
		config.Keys.Delay = opts.delay
	}
	if flags.Changed("pause") {
		config.Keys.Pause = opts.pause
	}
	if flags.Changed("with-spaces") {
		config.Keys.WithSpaces = opts.withSpaces
	}
	if flags.Changed("with-tabs") {
		config.Keys.WithTabs = opts.withTabs
	}
	if flags.Changed("with-newlines") {
		config.Keys.WithNewlines = opts.withNewlines
	}
	if flags.Changed("keep-numlock") {
		config.Keys.TurnOffNumLock = !opts.keepNumLock
	}
	if flags.Changed("trigger") {
		config.Trigger.Hotkey = opts.trigger
	}
	if flags.Changed("repeat") {
		config.Trigger.Repeat = opts.repeat
	}
	if flags.Changed("log-file") {
		config.Logging.File = opts.logFile
	}
	if opts.verbose {
		config.Logging.Level = "debug"
	}
}

func readKeys(opts *rootOptions) (string, error) {
	if opts.file == "" {
		return opts.keys, nil
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Execute runs the root command until it finishes or ctx is cancelled
func Execute(ctx context.Context) error {
	return NewRootCmd(defaultDeps()).ExecuteContext(ctx)
}
