package dialog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m ConfirmModel, keys ...tea.KeyMsg) (ConfirmModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(ConfirmModel)
	}
	return m, cmd
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyX        = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
)

func TestConfirm_OKKeepsDefault(t *testing.T) {
	m, cmd := press(t, NewExportConfirm(false), keyEnter)

	require.NotNil(t, cmd)
	assert.True(t, m.Done())
	assert.Equal(t, Result{Confirmed: true, Checked: false}, m.Result())
}

func TestConfirm_ToggleThenOK(t *testing.T) {
	m, _ := press(t, NewExportConfirm(false), keySpace)
	assert.False(t, m.Done())

	m, _ = press(t, m, keyEnter)
	assert.Equal(t, Result{Confirmed: true, Checked: true}, m.Result())
}

func TestConfirm_XTogglesBack(t *testing.T) {
	m, _ := press(t, NewExportConfirm(true), keyX, keyEnter)
	assert.Equal(t, Result{Confirmed: true, Checked: false}, m.Result())
}

func TestConfirm_EnterOnCheckboxToggles(t *testing.T) {
	m, _ := press(t, NewExportConfirm(false), keyShiftTab, keyEnter)
	assert.False(t, m.Done())
	assert.True(t, m.Result().Checked)
}

func TestConfirm_CancelButton(t *testing.T) {
	m, cmd := press(t, NewExportConfirm(false), keyTab, keyEnter)

	require.NotNil(t, cmd)
	assert.True(t, m.Done())
	assert.False(t, m.Result().Confirmed)
}

func TestConfirm_FocusWraps(t *testing.T) {
	// OK -> Cancel -> checkbox -> OK
	m, _ := press(t, NewExportConfirm(false), keyTab, keyTab, keyTab, keyEnter)
	assert.True(t, m.Result().Confirmed)
}

func TestConfirm_Escape(t *testing.T) {
	m, _ := press(t, NewExportConfirm(true), keyEsc)
	assert.True(t, m.Done())
	assert.Equal(t, Result{Confirmed: false, Checked: true}, m.Result())
}

func TestConfirm_UnansweredIsNotConfirmed(t *testing.T) {
	assert.False(t, NewExportConfirm(false).Result().Confirmed)
}

func TestConfirm_View(t *testing.T) {
	m := NewExportConfirm(false)
	view := m.View()
	for _, want := range []string{ExportTitle, ExportInstruction, ExportContent, ExportVerification, "OK", "Cancel", "[ ]"} {
		assert.Contains(t, view, want)
	}

	m, _ = press(t, m, keySpace)
	assert.Contains(t, m.View(), "[x]")

	m, _ = press(t, m, keyEsc)
	assert.Empty(t, m.View())
}

func TestMessages(t *testing.T) {
	assert.Contains(t, Completion(ExportCompleteTitle, ExportCompleteBody), ExportCompleteBody)
	assert.Contains(t, Failure(ErrorTitle, errors.New("disk full")), "disk full")
	assert.Contains(t, Info(FindTitle, NotFoundBody), NotFoundBody)
	assert.Equal(t, "Model rotated by 90°", RotateBody(90))
	assert.Equal(t, "Model rotated by -12.5°", RotateBody(-12.5))

	var buf bytes.Buffer
	require.NoError(t, Show(&buf, Completion(PropertiesCompleteTitle, PropertiesCompleteBody)))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), PropertiesCompleteBody)
}
