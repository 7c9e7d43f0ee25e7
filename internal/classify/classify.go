// Package classify maps entries to display glyphs and formats byte counts
// into human-readable units. All functions are pure and perform no I/O.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	directoryEmoji = "📁"
	unknownEmoji   = "📄"

	directoryASCIIGlyph = "[d]"
	fileASCIIGlyph      = "[f]"
)

// emojiByExtension maps a lower-case file extension to its display emoji.
var emojiByExtension = map[string]string{
	// Documents
	".pdf": "📄", ".doc": "📝", ".docx": "📝", ".txt": "📄",
	".md": "📝", ".rst": "📝", ".rtf": "📄",
	// Images
	".jpg": "🖼️", ".jpeg": "🖼️", ".png": "🖼️", ".gif": "🖼️",
	".bmp": "🖼️", ".svg": "🖼️", ".webp": "🖼️", ".ico": "🖼️",
	".tiff": "🖼️", ".tif": "🖼️",
	// Video
	".mp4": "🎥", ".avi": "🎥", ".mkv": "🎥", ".mov": "🎥",
	".wmv": "🎥", ".flv": "🎥", ".webm": "🎥", ".m4v": "🎥",
	// Audio
	".mp3": "🎵", ".wav": "🎵", ".flac": "🎵", ".aac": "🎵",
	".ogg": "🎵", ".m4a": "🎵", ".wma": "🎵",
	// Source code
	".py": "🐍", ".js": "📜", ".ts": "📜", ".jsx": "📜", ".tsx": "📜",
	".html": "🌐", ".htm": "🌐", ".css": "🎨", ".scss": "🎨", ".sass": "🎨",
	".php": "🐘", ".rb": "💎", ".go": "🐹", ".rs": "🦀", ".java": "☕",
	".c": "⚙️", ".cpp": "⚙️", ".cxx": "⚙️", ".h": "⚙️", ".hpp": "⚙️",
	".cs": "🔷", ".vb": "🔷", ".swift": "🦉", ".kt": "🟣", ".scala": "🔺",
	".r": "📊", ".m": "🍎",
	".sh": "🐚", ".bash": "🐚", ".zsh": "🐚", ".fish": "🐚",
	".ps1": "💻", ".bat": "💻", ".cmd": "💻",
	// Data
	".json": "📋", ".xml": "📋", ".yaml": "📋", ".yml": "📋",
	".csv": "📊", ".xlsx": "📊", ".xls": "📊",
	".sql": "🗄️", ".db": "🗄️", ".sqlite": "🗄️", ".sqlite3": "🗄️",
	// Configuration
	".ini": "⚙️", ".cfg": "⚙️", ".conf": "⚙️", ".config": "⚙️", ".toml": "⚙️",
	".env": "🔐", ".gitignore": "🙈", ".dockerfile": "🐳", ".dockerignore": "🐳",
	// Archives
	".zip": "📦", ".rar": "📦", ".7z": "📦", ".tar": "📦",
	".gz": "📦", ".bz2": "📦", ".xz": "📦",
	// Executables and packages
	".exe": "⚡", ".msi": "⚡", ".run": "⚡",
	".deb": "📱", ".rpm": "📱", ".dmg": "📱", ".app": "📱",
	// Fonts
	".ttf": "🔤", ".otf": "🔤", ".woff": "🔤", ".woff2": "🔤",
	// Others
	".lock": "🔒", ".log": "📋", ".tmp": "🗑️", ".bak": "💾",
	".old": "🗑️", ".orig": "🗑️",
}

// Glyph returns the display symbol for an entry name. With emoji enabled the
// symbol is chosen from the extension table with directory and unknown-file
// defaults; with emoji disabled directories render as "[d]" and files as
// "[f]" regardless of extension.
func Glyph(name string, isDirectory bool, useEmoji bool) string {
	if !useEmoji {
		if isDirectory {
			return directoryASCIIGlyph
		}
		return fileASCIIGlyph
	}
	if isDirectory {
		return directoryEmoji
	}
	extension := strings.ToLower(filepath.Ext(name))
	if emoji, known := emojiByExtension[extension]; known {
		return emoji
	}
	return unknownEmoji
}

// FormatSize converts a byte count into a human-readable string: whole bytes
// below one kilobyte, one decimal place above, with 1024-based thresholds.
// A negative size is a caller bug and panics.
func FormatSize(sizeBytes int64) string {
	if sizeBytes < 0 {
		panic(fmt.Sprintf("classify: negative size %d", sizeBytes))
	}
	if sizeBytes < 1024 {
		return fmt.Sprintf("%d B", sizeBytes)
	}
	units := []string{"KB", "MB", "GB", "TB", "PB"}
	value := float64(sizeBytes)
	unitIndex := -1
	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	return fmt.Sprintf("%.1f %s", value, units[unitIndex])
}
