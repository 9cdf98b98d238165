//go:build windows

package activation

const (
	vkLButton = 0x01
	vkRButton = 0x02
)

var procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")

func systemButtons() (ButtonReader, func() error, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return nil, nil, err
	}
	read := func() (bool, bool, error) {
		return buttonDown(vkLButton), buttonDown(vkRButton), nil
	}
	return read, nil, nil
}

// buttonDown checks the high bit of GetAsyncKeyState.
func buttonDown(vk uintptr) bool {
	r, _, _ := procGetAsyncKeyState.Call(vk)
	return r&0x8000 != 0
}
