package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art of tblexport.
func asciiArtTpl() string {
	asciiArt := `
 _   _     _                       _
| |_| |__ | | _____  ___ __   ___  _ __| |_
| __| '_ \| |/ _ \ \/ / '_ \ / _ \| '__| __|
| |_| |_) | |  __/>  <| |_) | (_) | |  | |_
 \__|_.__/|_|\___/_/\_\ .__/ \___/|_|   \__|
                      |_|
%s ` + Version

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// CLIVersion returns the version banner of the tblexport CLI.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}
