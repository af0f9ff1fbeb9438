package commands

const (
	_etc = `C:\ProgramData\uhppoted`

	DEFAULT_ENV = _etc + `\sheetview\sheetview.env`
)
