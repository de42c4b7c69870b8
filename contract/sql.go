package contract

import (
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

// SQL runs statements against the contract's relational state.
type SQL struct {
	caller *bridge.Caller
}

// SQL returns the SQL operations of the invocation.
func (c *Context) SQL() *SQL {
	return &SQL{caller: c.caller}
}

// ExecuteQuery runs a query and returns a cursor over its rows.
func (s *SQL) ExecuteQuery(sql string) (ResultSet, error) {
	index, err := s.caller.FetchInt32(bridge.MethodExecuteQuery, sqlBody(sql))
	if err != nil {
		return nil, err
	}
	return &resultSet{caller: s.caller, methods: sqlCursor, index: index}, nil
}

// ExecuteQueryOne runs a query and returns its first row.
func (s *SQL) ExecuteQueryOne(sql string) (*easycodec.Codec, error) {
	return s.caller.FetchCodec(bridge.MethodExecuteQueryOneLen, bridge.MethodExecuteQueryOne, sqlBody(sql))
}

// ExecuteUpdate runs an insert, update or delete and returns the number of
// affected rows.
func (s *SQL) ExecuteUpdate(sql string) (int32, error) {
	return s.caller.FetchInt32(bridge.MethodExecuteUpdate, sqlBody(sql))
}

// ExecuteDDL runs a schema statement.
func (s *SQL) ExecuteDDL(sql string) (int32, error) {
	return s.caller.FetchInt32(bridge.MethodExecuteDDL, sqlBody(sql))
}

func sqlBody(sql string) *easycodec.Codec {
	b := easycodec.New()
	b.AddString(keySQL, sql)
	return b
}
