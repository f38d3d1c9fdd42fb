package dialog

import (
	"fmt"
	"io"
)

// Result box texts
const (
	ExportCompleteTitle     = "Export Complete"
	ExportCompleteBody      = "Flow-aware connections exported."
	PropertiesCompleteTitle = "Done"
	PropertiesCompleteBody  = "Clean matrix exported (no repetition)."
	RotateTitle             = "Rotate Model"
	FindTitle               = "Result"
	NotFoundBody            = "Element not found"
	ErrorTitle              = "Error"
)

// Completion renders a success box
func Completion(title, body string) string {
	return successBoxStyle.Render(successStyle.Render(title) + "\n\n" + body)
}

// Failure renders an error box
func Failure(title string, err error) string {
	return errorBoxStyle.Render(errorStyle.Render(title) + "\n\n" + err.Error())
}

// Info renders a neutral box
func Info(title, body string) string {
	return boxStyle.Render(titleStyle.Render(title) + "\n\n" + body)
}

// RotateBody is the message shown after a rotation
func RotateBody(angleDeg float64) string {
	return fmt.Sprintf("Model rotated by %g°", angleDeg)
}

// Show writes a rendered box to w
func Show(w io.Writer, box string) error {
	_, err := fmt.Fprintln(w, box)
	return err
}
