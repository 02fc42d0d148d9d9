package stdlib

import (
	"os"
	"time"

	. "github.com/lollipopkit/lua54/api"
)

var osFuncs = map[string]GoFunction{
	"time":    osTime,
	"clock":   osClock,
	"date":    osDate,
	"getenv":  osGetenv,
	"exit":    osExit,
	"remove":  osRemove,
	"rename":  osRename,
	"tmpname": osTmpname,
}

var processStart = time.Now()

func OpenOsLib(ls State) {
	ls.Globals().Set("os", ls.NewLib(osFuncs))
}

// os.time ([table])
func osTime(ls State, args []any) ([]any, error) {
	if t, ok := argValue(args, 1).(Table); ok {
		get := func(k string, dft int64) int64 {
			if v, ok := t.Get(k).(int64); ok {
				return v
			}
			return dft
		}
		tm := time.Date(
			int(get("year", 1970)), time.Month(get("month", 1)), int(get("day", 1)),
			int(get("hour", 12)), int(get("min", 0)), int(get("sec", 0)),
			0, time.Local)
		return one(tm.Unix()), nil
	}
	return one(time.Now().Unix()), nil
}

// os.clock ()
func osClock(ls State, args []any) ([]any, error) {
	return one(time.Since(processStart).Seconds()), nil
}

// os.date ([format [, time]])
func osDate(ls State, args []any) ([]any, error) {
	format := optString(ls, args, 1, "date", "%c")
	t := time.Now()
	if sec := argValue(args, 2); sec != nil {
		t = time.Unix(checkInt(ls, args, 2, "date"), 0)
	}
	utc := false
	if len(format) > 0 && format[0] == '!' {
		utc = true
		format = format[1:]
	}
	if utc {
		t = t.UTC()
	}

	if format == "*t" || format == "!*t" {
		tbl := ls.NewTable(0, 8)
		tbl.Set("year", int64(t.Year()))
		tbl.Set("month", int64(t.Month()))
		tbl.Set("day", int64(t.Day()))
		tbl.Set("hour", int64(t.Hour()))
		tbl.Set("min", int64(t.Minute()))
		tbl.Set("sec", int64(t.Second()))
		tbl.Set("wday", int64(t.Weekday())+1)
		tbl.Set("yday", int64(t.YearDay()))
		tbl.Set("isdst", false)
		return one(tbl), nil
	}
	return one(strftime(format, t)), nil
}

func osGetenv(ls State, args []any) ([]any, error) {
	name := checkString(ls, args, 1, "getenv")
	if v, ok := os.LookupEnv(name); ok {
		return one(v), nil
	}
	return one(nil), nil
}

// os.exit ([code [, close]])
func osExit(ls State, args []any) ([]any, error) {
	code := int64(0)
	switch v := argValue(args, 1).(type) {
	case bool:
		if !v {
			code = 1
		}
	case int64:
		code = v
	}
	os.Exit(int(code))
	return nil, nil
}

func osRemove(ls State, args []any) ([]any, error) {
	path := checkString(ls, args, 1, "remove")
	if err := os.Remove(path); err != nil {
		return []any{nil, err.Error()}, nil
	}
	return one(true), nil
}

func osRename(ls State, args []any) ([]any, error) {
	from := checkString(ls, args, 1, "rename")
	to := checkString(ls, args, 2, "rename")
	if err := os.Rename(from, to); err != nil {
		return []any{nil, err.Error()}, nil
	}
	return one(true), nil
}

func osTmpname(ls State, args []any) ([]any, error) {
	f, err := os.CreateTemp("", "lua")
	if err != nil {
		return nil, ls.NewError("unable to generate a unique filename", 1)
	}
	name := f.Name()
	f.Close()
	return one(name), nil
}

// strftime handles the directives listed in its switch; any other
// directive is copied to the output unchanged.
func strftime(format string, t time.Time) string {
	var out []byte
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			out = append(out, format[i])
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			out = t.AppendFormat(out, "2006")
		case 'y':
			out = t.AppendFormat(out, "06")
		case 'm':
			out = t.AppendFormat(out, "01")
		case 'd':
			out = t.AppendFormat(out, "02")
		case 'H':
			out = t.AppendFormat(out, "15")
		case 'M':
			out = t.AppendFormat(out, "04")
		case 'S':
			out = t.AppendFormat(out, "05")
		case 'p':
			out = t.AppendFormat(out, "PM")
		case 'A':
			out = t.AppendFormat(out, "Monday")
		case 'a':
			out = t.AppendFormat(out, "Mon")
		case 'B':
			out = t.AppendFormat(out, "January")
		case 'b':
			out = t.AppendFormat(out, "Jan")
		case 'c':
			out = t.AppendFormat(out, "Mon Jan  2 15:04:05 2006")
		case 'x':
			out = t.AppendFormat(out, "01/02/06")
		case 'X':
			out = t.AppendFormat(out, "15:04:05")
		case '%':
			out = append(out, '%')
		default:
			out = append(out, '%', format[i])
		}
	}
	return string(out)
}
