package commands

const (
	_etc = "/usr/local/etc/uhppoted"

	DEFAULT_ENV = _etc + "/sheetview/sheetview.env"
)
