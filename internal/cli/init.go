package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/theater/internal/config"
	"github.com/AndreyAkinshin/theater/internal/errors"
	"github.com/AndreyAkinshin/theater/internal/output"
)

// examplePuppetName matches the default pattern so a fresh init runs as is.
const examplePuppetName = "example.puppet.js"

const examplePuppet = `// Runs one scenario and reports how long it took.
// theater sets THEATER_PUPPET and THEATER_ATTEMPT for every run.
const attempt = Number(process.env.THEATER_ATTEMPT || 1);

console.time('puppetPerformance');
let sum = 0;
for (let i = 0; i < 1e6; i++) {
  sum += i % (attempt + 1);
}
console.timeEnd('puppetPerformance');
`

// cmdInit creates a starter theater.json and an example puppet in the
// execution directory. Existing files are left untouched.
func cmdInit(args []string, opts *Options) int {
	if wantsHelp(args) {
		printInitUsage()
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("init: unexpected argument %q", args[0])
		return errors.ExitConfigError
	}

	dir, err := opts.execDir()
	if err != nil {
		return reportError(err)
	}

	data, err := json.MarshalIndent(config.Default(), "", "  ")
	if err != nil {
		return reportError(errors.Wrap(err, "failed to render configuration"))
	}
	data = append(data, '\n')

	files := []struct {
		name string
		data []byte
	}{
		{config.DefaultFileNames[0], data},
		{examplePuppetName, []byte(examplePuppet)},
	}

	var created []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return reportError(errors.Wrap(err, "failed to write "+f.name))
		}
		created = append(created, f.name)
	}

	if len(created) == 0 {
		out.Info("Nothing to do, theater is already initialized.")
		return 0
	}
	out.Success("Initialized theater in %s", dir)
	out.List(created)
	out.Hint("run 'theater' to perform the example puppet")
	return 0
}

func printInitUsage() {
	w := output.New()

	w.HelpTitle("theater init - create a starter configuration")

	w.HelpSection("Usage:")
	w.HelpUsage("theater init [-C <dir>]")

	w.HelpSection("Description:")
	w.Println("  Writes theater.json with the default settings and %s.", examplePuppetName)
	w.Println("  Files that already exist are not overwritten.")

	w.HelpSection("Examples:")
	w.HelpExample("theater init", "Initialize the current directory")
	w.HelpExample("theater init -C bench", "Initialize the bench directory")
	w.Println("")
}
