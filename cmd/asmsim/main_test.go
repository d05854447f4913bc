package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/x86"
)

func writeFile(t *testing.T, name, text string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("%v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	table := [...]struct {
		name string
		text string
	}{
		{"run.yaml", "timeout: 250ms\nmax_steps: 40\ntrack: rax,zf\n"},
		{"run.toml", "timeout = \"250ms\"\nmax_steps = 40\ntrack = \"rax,zf\"\n"},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			config := sim.DefaultConfig()
			err := loadConfig(writeFile(t, entry.name, entry.text), &config)
			assert.NoError(err)

			assert.Equal(250*time.Millisecond, config.Timeout)
			assert.Equal(40, config.MaxSteps)
			assert.True(config.StateConfig.Register(x86.REG_RAX))
			assert.False(config.StateConfig.Register(x86.REG_RBX))
			assert.True(config.StateConfig.Flag(x86.FLAG_ZF))
			assert.False(config.StateConfig.Flag(x86.FLAG_CF))
		})
	}

	config := sim.DefaultConfig()
	err := loadConfig(writeFile(t, "bad.yaml", "track: rax,bogus\n"), &config)
	assert.ErrorIs(t, err, sim.ErrConfigParse)

	err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), &config)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("ASMSIM_TIMEOUT_MS", "1500")
	t.Setenv("ASMSIM_VERBOSE", "true")

	config := sim.DefaultConfig()
	applyEnv(&config)
	assert.Equal(1500*time.Millisecond, config.Timeout)
	assert.True(config.Verbose)
}

func TestColorize(t *testing.T) {
	assert := assert.New(t)

	text := "ZF = ?\nRAX = 0x00U1\n"

	assert.Equal(text, colorize(aurora.NewAurora(false), text))

	colored := colorize(aurora.NewAurora(true), text)
	assert.NotEqual(text, colored)
	assert.True(strings.HasPrefix(colored, "ZF = \x1b["))
	assert.Contains(colored, "RAX = 0x")
	assert.Contains(colored, aurora.Magenta("U").String())
	assert.Contains(colored, aurora.Yellow("?").String())
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "prog.asm", `start:
	mov rax, 10
	mov rbx, 20
	add rax, rbx
`)
	fl, err := load(path, false)
	assert.NoError(err)

	config := sim.DefaultConfig()
	config.Timeout = 10 * time.Second
	config.StateConfig = sim.AllOff().WithRegister(x86.REG_RAX, true)

	forward := &run{Name: "forward"}
	backward := &run{Name: "backward", Backward: true}
	assert.NoError(forward.execute(fl, config))
	assert.NoError(backward.execute(fl, config))

	var fsb, bsb strings.Builder
	forward.report(&fsb, aurora.NewAurora(false), false)
	backward.report(&bsb, aurora.NewAurora(false), false)
	assert.Contains(fsb.String(), "RAX = 0x000000000000001e")
	assert.Contains(bsb.String(), "RAX = 0x000000000000001e")

	_, err = load(writeFile(t, "bad.asm", "jmp nowhere\n"), false)
	assert.Error(err)
}
