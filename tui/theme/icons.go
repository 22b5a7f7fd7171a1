package theme

import (
	"os"

	"github.com/dotforge/dotkit/config"
)

// Nerd Font Icons (Private Constants)
const (
	nerdIconLink           = "󰌷" // md-link (U+F0337)
	nerdIconUnlink         = "󰌸" // md-link_off (U+F0338)
	nerdIconBackup         = "󰀼" // md-archive (U+F003C)
	nerdIconRestore        = "󰁯" // md-backup_restore (U+F006F)
	nerdIconHook           = "󰛢" // md-hook (U+F06E2)
	nerdIconRepo           = "" // cod-repo (U+EA62)
	nerdIconGitBranch      = "" // dev-git_branch (U+E725)
	nerdIconFolder         = "󰉋" // md-folder (U+F024B)
	nerdIconFile           = "󰈔" // md-file (U+F0214)
	nerdIconSuccess        = "󰄬" // md-check (U+F012C)
	nerdIconError          = "" // cod-error (U+EA87)
	nerdIconWarning        = "" // fa-warning (U+F071)
	nerdIconInfo           = "󰋼" // md-information (U+F02FC)
	nerdIconRunning        = "" // fa-refresh (U+F021)
	nerdIconPending        = "󰦖" // md-progress_clock (U+F0996)
	nerdIconSkip           = "󰒭" // md-skip_next (U+F04AD)
	nerdIconSelect         = "󰱒" // md-checkbox_outline (U+F0C52)
	nerdIconArrow          = "󰁔" // md-arrow_right (U+F0054)
	nerdIconArrowRightBold = "󰜴" // md-arrow_right_bold (U+F0734)
	nerdIconBullet         = "" // oct-dot_fill (U+F444)
	nerdIconFilter         = "󱣬" // md-filter_check (U+F18EC)
)

// ASCII Fallback Icons (Private Constants)
const (
	asciiIconLink           = "->"
	asciiIconUnlink         = "-x"
	asciiIconBackup         = "[B]"
	asciiIconRestore        = "<-"
	asciiIconHook           = "[H]"
	asciiIconRepo           = "@"
	asciiIconGitBranch      = "|-"
	asciiIconFolder         = "+"
	asciiIconFile           = "-"
	asciiIconSuccess        = "ok"
	asciiIconError          = "x"
	asciiIconWarning        = "!"
	asciiIconInfo           = "i"
	asciiIconRunning        = "~"
	asciiIconPending        = "..."
	asciiIconSkip           = ">>"
	asciiIconSelect         = ">"
	asciiIconArrow          = "->"
	asciiIconArrowRightBold = "=>"
	asciiIconBullet         = "*"
	asciiIconFilter         = "#"
)

// Public Icon Variables
var (
	IconLink           string
	IconUnlink         string
	IconBackup         string
	IconRestore        string
	IconHook           string
	IconRepo           string
	IconGitBranch      string
	IconFolder         string
	IconFile           string
	IconSuccess        string
	IconError          string
	IconWarning        string
	IconInfo           string
	IconRunning        string
	IconPending        string
	IconSkip           string
	IconSelect         string
	IconArrow          string
	IconArrowRightBold string
	IconBullet         string
	IconFilter         string
)

// init function determines which icon set to use
func init() {
	useASCII := false

	// 1. Check environment variable first
	if os.Getenv("DOTKIT_ICONS") == "ascii" {
		useASCII = true
	} else {
		// 2. Check config file
		cfg, err := config.LoadDefault()
		if err == nil && cfg.TUI != nil && cfg.TUI.Icons == "ascii" {
			useASCII = true
		}
	}

	if useASCII {
		IconLink = asciiIconLink
		IconUnlink = asciiIconUnlink
		IconBackup = asciiIconBackup
		IconRestore = asciiIconRestore
		IconHook = asciiIconHook
		IconRepo = asciiIconRepo
		IconGitBranch = asciiIconGitBranch
		IconFolder = asciiIconFolder
		IconFile = asciiIconFile
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconRunning = asciiIconRunning
		IconPending = asciiIconPending
		IconSkip = asciiIconSkip
		IconSelect = asciiIconSelect
		IconArrow = asciiIconArrow
		IconArrowRightBold = asciiIconArrowRightBold
		IconBullet = asciiIconBullet
		IconFilter = asciiIconFilter
	} else {
		IconLink = nerdIconLink
		IconUnlink = nerdIconUnlink
		IconBackup = nerdIconBackup
		IconRestore = nerdIconRestore
		IconHook = nerdIconHook
		IconRepo = nerdIconRepo
		IconGitBranch = nerdIconGitBranch
		IconFolder = nerdIconFolder
		IconFile = nerdIconFile
		IconSuccess = nerdIconSuccess
		IconError = nerdIconError
		IconWarning = nerdIconWarning
		IconInfo = nerdIconInfo
		IconRunning = nerdIconRunning
		IconPending = nerdIconPending
		IconSkip = nerdIconSkip
		IconSelect = nerdIconSelect
		IconArrow = nerdIconArrow
		IconArrowRightBold = nerdIconArrowRightBold
		IconBullet = nerdIconBullet
		IconFilter = nerdIconFilter
	}
}
