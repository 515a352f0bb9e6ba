// Package main provides the CLI entrypoint for digitype.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kvasha/digitype/internal/achievement"
	"github.com/kvasha/digitype/internal/config"
	"github.com/kvasha/digitype/internal/model"
	"github.com/kvasha/digitype/internal/rain"
	"github.com/kvasha/digitype/internal/session"
	"github.com/kvasha/digitype/internal/sound"
	"github.com/kvasha/digitype/internal/stats"
	"github.com/kvasha/digitype/internal/store"
	"github.com/kvasha/digitype/internal/textsource"
	"github.com/kvasha/digitype/internal/tui"
)

const (
	defaultDuration   = 30
	defaultMode       = "timed"
	defaultDifficulty = "easy"
	defaultStatsDays  = 7
	defaultLimit      = 10
	defaultWindow     = 1
)

var (
	playUser       string
	playDuration   int
	playMode       string
	playDifficulty string
	playFile       string
	playNoSound    bool

	signupUser  string
	signupEmail string

	profileUser     string
	profileUsername string
	profileEmail    string
	profilePassword bool

	rainUser     string
	rainDuration int

	statsUser   string
	statsFrom   string
	statsTo     string
	statsWindow int

	progressUser   string
	progressFrom   string
	progressTo     string
	progressWindow int

	leaderboardLimit int

	achievementsUser string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "digitype",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playUser, "user", "", "username to log in as")
	rootCmd.Flags().IntVar(&playDuration, "duration", defaultDuration, "test duration in seconds")
	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "mode: timed, practice, or custom")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty: easy, medium, or hard")
	rootCmd.Flags().StringVar(&playFile, "file", "", "newline-delimited text file used as the prompt source")
	rootCmd.Flags().BoolVar(&playNoSound, "no-sound", false, "disable audio cues")

	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newRainCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Test.Duration)
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Test.Mode)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Test.Difficulty)
	if !cmd.Flags().Changed("no-sound") && envCfg.NoSound {
		playNoSound = true
	}

	mode, err := model.ParseMode(playMode)
	if err != nil {
		return err
	}
	difficulty, err := model.ParseDifficulty(playDifficulty)
	if err != nil {
		return err
	}
	if playDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	cfg := model.SessionConfig{
		DurationSeconds: playDuration,
		Mode:            mode,
		Difficulty:      difficulty,
	}

	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, playUser)
	if err != nil {
		return err
	}

	achievements := achievement.NewSet()
	if err := loadAchievements(st, user.ID, achievements); err != nil {
		logErrf("failed to load achievements: %v\n", err)
	}

	engine := session.New(cfg, session.NewPicker(), st, achievements, user.ID, storeLogger())
	if playFile != "" {
		lines, err := textsource.LoadLines(playFile)
		if err != nil {
			return fmt.Errorf("failed to load text file: %w", err)
		}
		if err := engine.UseTextSource(lines); err != nil {
			return err
		}
	}
	if err := engine.Start(); err != nil {
		return err
	}

	player := soundPlayer(fileCfg, playNoSound)
	screen := tui.NewModel(engine, player)
	program := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := screen.Err(); err != nil {
		return err
	}
	return saveAchievements(st, user.ID, achievements)
}

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  runSignupCmd,
	}
	cmd.Flags().StringVar(&signupUser, "user", "", "username")
	cmd.Flags().StringVar(&signupEmail, "email", "", "email (optional)")
	return cmd
}

func runSignupCmd(_ *cobra.Command, _ []string) error {
	_, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	if signupUser == "" {
		return fmt.Errorf("--user is required")
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	req := model.SignupRequest{Username: signupUser, Password: password, Email: signupEmail}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid signup input: %w", err)
	}

	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if _, err := st.CreateUser(context.Background(), req); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	fmt.Println("Account created. Log in with: digitype --user", signupUser)
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update account details",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&profileUser, "user", "", "username to log in as")
	cmd.Flags().StringVar(&profileUsername, "username", "", "new username")
	cmd.Flags().StringVar(&profileEmail, "email", "", "new email")
	cmd.Flags().BoolVar(&profilePassword, "password", false, "prompt for a new password")
	return cmd
}

func runProfileCmd(_ *cobra.Command, _ []string) error {
	_, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, profileUser)
	if err != nil {
		return err
	}

	req := model.UpdateProfileRequest{Username: profileUsername, Email: profileEmail}
	if profilePassword {
		password, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		req.Password = password
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid profile input: %w", err)
	}
	if err := st.UpdateUser(context.Background(), user.ID, req); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	fmt.Println("Profile updated.")
	return nil
}

func newRainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rain",
		Short: "Play the word-rain minigame",
		Args:  cobra.NoArgs,
		RunE:  runRainCmd,
	}
	cmd.Flags().StringVar(&rainUser, "user", "", "username to log in as")
	cmd.Flags().IntVar(&rainDuration, "duration", defaultDuration, "game duration in seconds")
	return cmd
}

func runRainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "duration", &rainDuration, fileCfg.Rain.Duration)
	if rainDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}

	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, rainUser)
	if err != nil {
		return err
	}

	spawnInterval := rain.DefaultSpawnInterval
	if fileCfg.Rain.SpawnIntervalMs != nil && *fileCfg.Rain.SpawnIntervalMs > 0 {
		spawnInterval = time.Duration(*fileCfg.Rain.SpawnIntervalMs) * time.Millisecond
	}
	fallInterval := rain.DefaultFallInterval
	if fileCfg.Rain.FallIntervalMs != nil && *fileCfg.Rain.FallIntervalMs > 0 {
		fallInterval = time.Duration(*fileCfg.Rain.FallIntervalMs) * time.Millisecond
	}

	engine := rain.New(80, 20, st, user.ID, storeLogger())
	player := soundPlayer(fileCfg, envCfg.NoSound)
	screen := tui.NewRainModel(engine, player, rainDuration, spawnInterval, fallInterval)
	program := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress charts and typing history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", "", "username to log in as")
	cmd.Flags().StringVar(&statsFrom, "from", "", "start date (YYYY-MM-DD, default 7 days ago)")
	cmd.Flags().StringVar(&statsTo, "to", "", "end date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	_, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	from, to, err := dateRange(statsFrom, statsTo)
	if err != nil {
		return err
	}

	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, statsUser)
	if err != nil {
		return err
	}

	records, err := st.ListProgress(context.Background(), model.ProgressFilter{
		UserID: user.ID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	return stats.RenderHistory(cmd.OutOrStdout(), records, statsWindow, 0, 0)
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the WPM progress chart",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
	cmd.Flags().StringVar(&progressUser, "user", "", "username to log in as")
	cmd.Flags().StringVar(&progressFrom, "from", "", "start date (YYYY-MM-DD, default 7 days ago)")
	cmd.Flags().StringVar(&progressTo, "to", "", "end date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&progressWindow, "window", defaultWindow, "moving average window")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	_, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	from, to, err := dateRange(progressFrom, progressTo)
	if err != nil {
		return err
	}

	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, progressUser)
	if err != nil {
		return err
	}

	records, err := st.ListProgress(context.Background(), model.ProgressFilter{
		UserID: user.ID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	return stats.RenderProgressChart(cmd.OutOrStdout(), records, progressWindow, 0, 0)
}

// dateRange parses the optional --from/--to values, defaulting to the
// last week ending today.
func dateRange(fromArg, toArg string) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -defaultStatsDays)
	var err error
	if fromArg != "" {
		from, err = time.ParseInLocation("2006-01-02", fromArg, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value: %w", err)
		}
	}
	if toArg != "" {
		to, err = time.ParseInLocation("2006-01-02", toArg, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value: %w", err)
		}
	}
	return from, to, nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the best-WPM leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().IntVar(&leaderboardLimit, "limit", defaultLimit, "number of rows")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	_, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	board, err := st.Leaderboard(context.Background(), leaderboardLimit)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return stats.RenderLeaderboard(cmd.OutOrStdout(), board)
}

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show achievement flags",
		Args:  cobra.NoArgs,
		RunE:  runAchievementsCmd,
	}
	cmd.Flags().StringVar(&achievementsUser, "user", "", "username to log in as")
	return cmd
}

func runAchievementsCmd(cmd *cobra.Command, _ []string) error {
	_, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, achievementsUser)
	if err != nil {
		return err
	}

	set := achievement.NewSet()
	if err := loadAchievements(st, user.ID, set); err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}
	return stats.RenderAchievements(cmd.OutOrStdout(), set.Statuses())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadConfigs() (config.FileConfig, config.EnvConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, err
	}
	return fileCfg, envCfg, nil
}

func openStore(envCfg config.EnvConfig) (*store.Store, error) {
	path := envCfg.DBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path, storeLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func storeLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// login authenticates the named user, prompting for the password.
func login(st *store.Store, username string) (model.User, error) {
	if username == "" {
		return model.User{}, fmt.Errorf("--user is required (create an account with: digitype signup --user <name>)")
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return model.User{}, err
	}
	req := model.LoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return model.User{}, fmt.Errorf("invalid login input: %w", err)
	}
	user, err := st.Authenticate(context.Background(), req)
	if err != nil {
		return model.User{}, fmt.Errorf("login failed: %w", err)
	}
	return user, nil
}

func loadAchievements(st *store.Store, userID int64, set *achievement.Set) error {
	names, err := st.ListAchievements(context.Background(), userID)
	if err != nil {
		return err
	}
	for _, name := range names {
		set.Mark(name)
	}
	return nil
}

func saveAchievements(st *store.Store, userID int64, set *achievement.Set) error {
	var earned []string
	for _, status := range set.Statuses() {
		if status.Achieved {
			earned = append(earned, status.Name)
		}
	}
	if err := st.SaveAchievements(context.Background(), userID, earned); err != nil {
		return fmt.Errorf("failed to save achievements: %w", err)
	}
	return nil
}

// readPassword reads without echo on a terminal and falls back to a plain
// line read when stdin is piped.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# digitype configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# duration = %d          # Test duration in seconds
# mode = %q         # timed, practice, or custom
# difficulty = %q    # easy, medium, or hard

[rain]
# duration = %d          # Game duration in seconds
# spawn-interval-ms = 1000
# fall-interval-ms = 50

[sound]
# enabled = true
# player = ""             # audio player binary (autodetected when empty)
`,
		defaultDuration,
		defaultMode,
		defaultDifficulty,
		defaultDuration,
	)
}

func soundPlayer(fileCfg config.FileConfig, disabled bool) *sound.Player {
	if fileCfg.Sound.Enabled != nil && !*fileCfg.Sound.Enabled {
		disabled = true
	}
	binary := ""
	if fileCfg.Sound.PlayerBinary != nil {
		binary = *fileCfg.Sound.PlayerBinary
	}
	return sound.New(config.DefaultSoundDir(), binary, disabled, storeLogger())
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
