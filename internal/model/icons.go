package model

// Icons for descriptor kinds in the TUI.
// Using simple single-width characters for consistent terminal rendering
const (
	IconFile     = " " // Plain file (no icon to reduce noise)
	IconSocket   = "≈" // Socket
	IconPipe     = "|" // Pipe or FIFO
	IconAnon     = "◆" // anon_inode (eventfd, epoll, ...)
	IconDevice   = "¤" // Device node
	IconOther    = "?" // Anything else
	IconOffender = "✗" // Process over the threshold
)

// Icon returns the display icon for k.
func (k Kind) Icon() string {
	switch k {
	case KindFile:
		return IconFile
	case KindSocket:
		return IconSocket
	case KindPipe:
		return IconPipe
	case KindAnon:
		return IconAnon
	case KindDevice:
		return IconDevice
	default:
		return IconOther
	}
}
