package ast

type (
	// Главные сущности
	FileID uint32
	ItemID uint32
	StmtID uint32
	ExprID uint32
	TypeID uint32 // синтаксическая ссылка на тип, не types.TypeID
	// Подсущности
	FnID      uint32
	FieldID   uint32
	ParamID   uint32
	PayloadID uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoFnID      FnID      = 0
	NoFieldID   FieldID   = 0
	NoParamID   ParamID   = 0
	NoPayloadID PayloadID = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id FnID) IsValid() bool      { return id != NoFnID }
func (id FieldID) IsValid() bool   { return id != NoFieldID }
func (id ParamID) IsValid() bool   { return id != NoParamID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
