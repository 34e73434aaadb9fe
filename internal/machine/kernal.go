package machine

import "github.com/retroenv/retrosniff/internal/symbols"

// kernalJumpTable is the KERNAL jump table shared by the VIC-20, C64, C128 and Plus/4.
var kernalJumpTable = []symbols.Symbol{
	{Address: 0xff81, Label: "CINT"},
	{Address: 0xff84, Label: "IOINIT"},
	{Address: 0xff87, Label: "RAMTAS"},
	{Address: 0xff8a, Label: "RESTOR"},
	{Address: 0xff8d, Label: "VECTOR"},
	{Address: 0xff90, Label: "SETMSG"},
	{Address: 0xff93, Label: "SECOND"},
	{Address: 0xff96, Label: "TKSA"},
	{Address: 0xff99, Label: "MEMTOP"},
	{Address: 0xff9c, Label: "MEMBOT"},
	{Address: 0xff9f, Label: "SCNKEY"},
	{Address: 0xffa2, Label: "SETTMO"},
	{Address: 0xffa5, Label: "ACPTR"},
	{Address: 0xffa8, Label: "CIOUT"},
	{Address: 0xffab, Label: "UNTLK"},
	{Address: 0xffae, Label: "UNLSN"},
	{Address: 0xffb1, Label: "LISTEN"},
	{Address: 0xffb4, Label: "TALK"},
	{Address: 0xffb7, Label: "READST"},
	{Address: 0xffba, Label: "SETLFS"},
	{Address: 0xffbd, Label: "SETNAM"},
	{Address: 0xffc0, Label: "OPEN"},
	{Address: 0xffc3, Label: "CLOSE"},
	{Address: 0xffc6, Label: "CHKIN"},
	{Address: 0xffc9, Label: "CHKOUT"},
	{Address: 0xffcc, Label: "CLRCHN"},
	{Address: 0xffcf, Label: "CHRIN"},
	{Address: 0xffd2, Label: "CHROUT"},
	{Address: 0xffd5, Label: "LOAD"},
	{Address: 0xffd8, Label: "SAVE"},
	{Address: 0xffdb, Label: "SETTIM"},
	{Address: 0xffde, Label: "RDTIM"},
	{Address: 0xffe1, Label: "STOP"},
	{Address: 0xffe4, Label: "GETIN"},
	{Address: 0xffe7, Label: "CLALL"},
	{Address: 0xffea, Label: "UDTIM"},
	{Address: 0xffed, Label: "SCREEN"},
	{Address: 0xfff0, Label: "PLOT"},
	{Address: 0xfff3, Label: "IOBASE"},
}

// petKernal is the subset of the jump table that BASIC 4 PETs provide.
var petKernal = []symbols.Symbol{
	{Address: 0xffc0, Label: "OPEN"},
	{Address: 0xffc3, Label: "CLOSE"},
	{Address: 0xffc6, Label: "CHKIN"},
	{Address: 0xffc9, Label: "CHKOUT"},
	{Address: 0xffcc, Label: "CLRCHN"},
	{Address: 0xffcf, Label: "CHRIN"},
	{Address: 0xffd2, Label: "CHROUT"},
	{Address: 0xffd5, Label: "LOAD"},
	{Address: 0xffd8, Label: "SAVE"},
	{Address: 0xffdb, Label: "VERIFY"},
	{Address: 0xffde, Label: "SYS"},
	{Address: 0xffe1, Label: "STOP"},
	{Address: 0xffe4, Label: "GETIN"},
	{Address: 0xffe7, Label: "CLALL"},
	{Address: 0xffea, Label: "UDTIM"},
}
