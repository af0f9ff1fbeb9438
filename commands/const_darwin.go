package commands

const (
	_etc = "/usr/local/etc/com.github.uhppoted"

	DEFAULT_ENV = _etc + "/sheetview/sheetview.env"
)
