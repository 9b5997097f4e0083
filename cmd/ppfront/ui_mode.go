package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode - значение флага --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI: в auto прогресс рисуется только для нескольких единиц и
// только когда и stdout, и stderr подключены к терминалу.
func shouldUseTUI(mode uiMode, units int) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return units > 1 && isTerminal(os.Stdout) && isTerminal(os.Stderr)
}
