package model

// Kind is the discriminator of a ButtonAction. Several kinds are aliases
// kept for profiles written by older clients (e.g. "system_hotkey" and "hotkey").
type Kind string

const (
	KindNone Kind = "none"

	// System
	KindOpenURL             Kind = "open_url"
	KindWebsite             Kind = "website"
	KindSystemWebsite       Kind = "system_website"
	KindHotkey              Kind = "hotkey"
	KindSystemHotkey        Kind = "system_hotkey"
	KindHotkeySwitch        Kind = "hotkey_switch"
	KindSystemHotkeySwitch  Kind = "system_hotkey_switch"
	KindOpenApplication     Kind = "open_application"
	KindSystemOpenApp       Kind = "system_open_app"
	KindSystemOpen          Kind = "system_open"
	KindSystemClose         Kind = "system_close"
	KindSystemText          Kind = "system_text"
	KindSystemMultimedia    Kind = "system_multimedia"
	KindSystemSleep         Kind = "system_sleep"
	KindVolumeControl       Kind = "volume_control"
	KindVolumeControlInput  Kind = "volume_control_input"
	KindVolumeControlOutput Kind = "volume_control_output"

	// Legacy, delegated to the system collaborator as-is
	KindRunScript Kind = "run_script"
	KindPlugin    Kind = "plugin"

	// Audio
	KindPlayAudio      Kind = "play_audio"
	KindSoundboardPlay Kind = "soundboard_play"
	KindStopAudio      Kind = "stop_audio"
	KindSoundboardStop Kind = "soundboard_stop"

	// Timer
	KindCountdownTimer Kind = "countdown_timer"
	KindTimer          Kind = "timer"
	KindDelay          Kind = "delay"
	KindSleep          Kind = "sleep"

	// Composite
	KindMultiAction       Kind = "multi_action"
	KindMultiActionSwitch Kind = "multi_action_switch"
	KindRandomAction      Kind = "random_action"

	// Navigation
	KindCreateFolder     Kind = "create_folder"
	KindNavCreateFolder  Kind = "navigation_create_folder"
	KindSwitchProfile    Kind = "switch_profile"
	KindNavSwitchProfile Kind = "navigation_switch_profile"
	KindPreviousPage     Kind = "previous_page"
	KindNavPreviousPage  Kind = "navigation_previous_page"
	KindNextPage         Kind = "next_page"
	KindNavNextPage      Kind = "navigation_next_page"
	KindGoToPage         Kind = "go_to_page"
	KindNavGoToPage      Kind = "navigation_go_to_page"
	KindPageIndicator    Kind = "page_indicator"
	KindNavPageIndicator Kind = "navigation_page_indicator"
)

// Category selects the handler that executes a kind.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNone
	CategorySystem
	CategoryLegacy
	CategoryAudio
	CategoryTimer
	CategoryNavigation
	CategoryMulti
	CategoryMultiSwitch
	CategoryRandom
)

// Shape identifies which payload a kind carries.
type Shape int

const (
	ShapeSimple Shape = iota
	ShapeHotkeySwitch
	ShapeSequence
	ShapeSwitchSets
	ShapeRandomSet
	ShapeTimer
	ShapeAudio
	ShapeNavigation
)

type kindInfo struct {
	canonical Kind
	category  Category
	shape     Shape
}

// kindTable maps every known kind (aliases included) to its canonical name,
// category and payload shape.
var kindTable = map[Kind]kindInfo{
	KindNone: {KindNone, CategoryNone, ShapeSimple},

	KindOpenURL:             {KindOpenURL, CategorySystem, ShapeSimple},
	KindWebsite:             {KindOpenURL, CategorySystem, ShapeSimple},
	KindSystemWebsite:       {KindOpenURL, CategorySystem, ShapeSimple},
	KindHotkey:              {KindHotkey, CategorySystem, ShapeSimple},
	KindSystemHotkey:        {KindHotkey, CategorySystem, ShapeSimple},
	KindHotkeySwitch:        {KindHotkeySwitch, CategorySystem, ShapeHotkeySwitch},
	KindSystemHotkeySwitch:  {KindHotkeySwitch, CategorySystem, ShapeHotkeySwitch},
	KindOpenApplication:     {KindSystemOpenApp, CategorySystem, ShapeSimple},
	KindSystemOpenApp:       {KindSystemOpenApp, CategorySystem, ShapeSimple},
	KindSystemOpen:          {KindSystemOpen, CategorySystem, ShapeSimple},
	KindSystemClose:         {KindSystemClose, CategorySystem, ShapeSimple},
	KindSystemText:          {KindSystemText, CategorySystem, ShapeSimple},
	KindSystemMultimedia:    {KindSystemMultimedia, CategorySystem, ShapeSimple},
	KindSystemSleep:         {KindSystemSleep, CategorySystem, ShapeSimple},
	KindVolumeControl:       {KindVolumeControl, CategorySystem, ShapeSimple},
	KindVolumeControlInput:  {KindVolumeControl, CategorySystem, ShapeSimple},
	KindVolumeControlOutput: {KindVolumeControl, CategorySystem, ShapeSimple},

	KindRunScript: {KindRunScript, CategoryLegacy, ShapeSimple},
	KindPlugin:    {KindPlugin, CategoryLegacy, ShapeSimple},

	KindPlayAudio:      {KindPlayAudio, CategoryAudio, ShapeAudio},
	KindSoundboardPlay: {KindPlayAudio, CategoryAudio, ShapeAudio},
	KindStopAudio:      {KindStopAudio, CategoryAudio, ShapeAudio},
	KindSoundboardStop: {KindStopAudio, CategoryAudio, ShapeAudio},

	KindCountdownTimer: {KindCountdownTimer, CategoryTimer, ShapeTimer},
	KindTimer:          {KindCountdownTimer, CategoryTimer, ShapeTimer},
	KindDelay:          {KindDelay, CategoryTimer, ShapeSimple},
	KindSleep:          {KindDelay, CategoryTimer, ShapeSimple},

	KindMultiAction:       {KindMultiAction, CategoryMulti, ShapeSequence},
	KindMultiActionSwitch: {KindMultiActionSwitch, CategoryMultiSwitch, ShapeSwitchSets},
	KindRandomAction:      {KindRandomAction, CategoryRandom, ShapeRandomSet},

	KindCreateFolder:     {KindCreateFolder, CategoryNavigation, ShapeNavigation},
	KindNavCreateFolder:  {KindCreateFolder, CategoryNavigation, ShapeNavigation},
	KindSwitchProfile:    {KindSwitchProfile, CategoryNavigation, ShapeNavigation},
	KindNavSwitchProfile: {KindSwitchProfile, CategoryNavigation, ShapeNavigation},
	KindPreviousPage:     {KindPreviousPage, CategoryNavigation, ShapeNavigation},
	KindNavPreviousPage:  {KindPreviousPage, CategoryNavigation, ShapeNavigation},
	KindNextPage:         {KindNextPage, CategoryNavigation, ShapeNavigation},
	KindNavNextPage:      {KindNextPage, CategoryNavigation, ShapeNavigation},
	KindGoToPage:         {KindGoToPage, CategoryNavigation, ShapeNavigation},
	KindNavGoToPage:      {KindGoToPage, CategoryNavigation, ShapeNavigation},
	KindPageIndicator:    {KindPageIndicator, CategoryNavigation, ShapeNavigation},
	KindNavPageIndicator: {KindPageIndicator, CategoryNavigation, ShapeNavigation},
}

// Known reports whether k is a recognised kind.
func (k Kind) Known() bool {
	_, ok := kindTable[k]
	return ok
}

// Canonical resolves aliases, e.g. "system_website" -> "open_url".
// Unknown kinds are returned unchanged.
func (k Kind) Canonical() Kind {
	if info, ok := kindTable[k]; ok {
		return info.canonical
	}
	return k
}

func (k Kind) Category() Category {
	return kindTable[k].category
}

// Shape returns the payload shape for k. Unknown kinds are simple.
func (k Kind) Shape() Shape {
	return kindTable[k].shape
}

// Kinds returns every known kind, aliases included.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindTable))
	for k := range kindTable {
		out = append(out, k)
	}
	return out
}
