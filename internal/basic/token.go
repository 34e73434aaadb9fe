package basic

// Token values shared by all dialects.
const (
	TokenData  = 0x83
	TokenRem   = 0x8f
	TokenPrint = 0x99
	TokenSys   = 0x9e
	TokenPi    = 0xff
)

// Dialect describes the keyword tokens of one BASIC version.
type Dialect struct {
	Name string

	keywords map[byte]string
	escapes  map[byte]map[byte]string // two byte tokens by prefix byte
}

// Keyword returns the keyword of a single byte token.
func (d *Dialect) Keyword(token byte) (string, bool) {
	keyword, ok := d.keywords[token]
	return keyword, ok
}

// IsEscape returns whether the byte starts a two byte token.
func (d *Dialect) IsEscape(prefix byte) bool {
	_, ok := d.escapes[prefix]
	return ok
}

// EscapedKeyword returns the keyword of a two byte token.
func (d *Dialect) EscapedKeyword(prefix, token byte) (string, bool) {
	table, ok := d.escapes[prefix]
	if !ok {
		return "", false
	}
	keyword, ok := table[token]
	return keyword, ok
}

var v2Keywords = []string{
	"END", "FOR", "NEXT", "DATA", "INPUT#", "INPUT", "DIM", "READ",
	"LET", "GOTO", "RUN", "IF", "RESTORE", "GOSUB", "RETURN", "REM",
	"STOP", "ON", "WAIT", "LOAD", "SAVE", "VERIFY", "DEF", "POKE",
	"PRINT#", "PRINT", "CONT", "LIST", "CLR", "CMD", "SYS", "OPEN",
	"CLOSE", "GET", "NEW", "TAB(", "TO", "FN", "SPC(", "THEN",
	"NOT", "STEP", "+", "-", "*", "/", "^", "AND",
	"OR", ">", "=", "<", "SGN", "INT", "ABS", "USR",
	"FRE", "POS", "SQR", "RND", "LOG", "EXP", "COS", "SIN",
	"TAN", "ATN", "PEEK", "LEN", "STR$", "VAL", "ASC", "CHR$",
	"LEFT$", "RIGHT$", "MID$", "GO",
}

// v4Keywords are the disk commands of PET BASIC 4, starting at token 0xcc.
var v4Keywords = []string{
	"CONCAT", "DOPEN", "DCLOSE", "RECORD", "HEADER", "COLLECT", "BACKUP", "COPY",
	"APPEND", "DSAVE", "DLOAD", "CATALOG", "RENAME", "SCRATCH", "DIRECTORY",
}

// v35Keywords start at token 0xcc.
var v35Keywords = []string{
	"RGR", "RCLR", "RLUM", "JOY", "RDOT", "DEC", "HEX$", "ERR$",
	"INSTR", "ELSE", "RESUME", "TRAP", "TRON", "TROFF", "SOUND", "VOL",
	"AUTO", "PUDEF", "GRAPHIC", "PAINT", "CHAR", "BOX", "CIRCLE", "GSHAPE",
	"SSHAPE", "DRAW", "LOCATE", "COLOR", "SCNCLR", "SCALE", "HELP", "DO",
	"LOOP", "EXIT", "DIRECTORY", "DSAVE", "DLOAD", "HEADER", "SCRATCH", "COLLECT",
	"COPY", "RENAME", "BACKUP", "DELETE", "RENUMBER", "KEY", "MONITOR", "USING",
	"UNTIL", "WHILE",
}

// v7 function tokens prefixed with 0xce, starting at 0x02.
var v7FunctionKeywords = []string{
	"POT", "BUMP", "PEN", "RSPPOS", "RSPRITE", "RSPCOLOR", "XOR", "RWINDOW",
	"POINTER",
}

// v7 statement tokens prefixed with 0xfe, starting at 0x02.
var v7StatementKeywords = []string{
	"BANK", "FILTER", "PLAY", "TEMPO", "MOVSPR", "SPRITE", "SPRCOLOR", "RREG",
	"ENVELOPE", "SLEEP", "CATALOG", "DOPEN", "APPEND", "DCLOSE", "BSAVE", "BLOAD",
	"RECORD", "CONCAT", "DVERIFY", "DCLEAR", "SPRSAV", "COLLISION", "BEGIN", "BEND",
	"WINDOW", "BOOT", "WIDTH", "SPRDEF", "QUIT", "STASH", "", "FETCH",
	"", "SWAP", "OFF", "FAST", "SLOW",
}

const (
	v7FunctionPrefix  = 0xce
	v7StatementPrefix = 0xfe
)

// Dialects of the supported machines.
var (
	// V2 is used by the C64 and the VIC-20.
	V2 = newDialect("v2", v2Keywords, nil, nil)
	// V4 is used by PET and CBM models with BASIC 4 ROMs.
	V4 = newDialect("v4", v2Keywords, v4Keywords, nil)
	// V35 is used by the Plus/4 and the C16.
	V35 = newDialect("v3.5", v2Keywords, v35Keywords, nil)
	// V7 is used by the C128.
	V7 = newDialect("v7", v2Keywords, v35Keywords, map[byte][]string{
		v7FunctionPrefix:  v7FunctionKeywords,
		v7StatementPrefix: v7StatementKeywords,
	})
)

// Dialects lists all dialects by name.
var Dialects = map[string]*Dialect{
	V2.Name:  V2,
	V4.Name:  V4,
	V35.Name: V35,
	V7.Name:  V7,
}

func newDialect(name string, base, extended []string, escapes map[byte][]string) *Dialect {
	d := &Dialect{
		Name:     name,
		keywords: make(map[byte]string, len(base)+len(extended)+1),
	}
	for i, keyword := range base {
		d.keywords[byte(0x80+i)] = keyword
	}
	for i, keyword := range extended {
		d.keywords[byte(0xcc+i)] = keyword
	}
	d.keywords[TokenPi] = "{pi}"

	if len(escapes) > 0 {
		d.escapes = make(map[byte]map[byte]string, len(escapes))
	}
	for prefix, keywords := range escapes {
		delete(d.keywords, prefix)
		table := make(map[byte]string, len(keywords))
		for i, keyword := range keywords {
			if keyword != "" {
				table[byte(0x02+i)] = keyword
			}
		}
		d.escapes[prefix] = table
	}
	return d
}
