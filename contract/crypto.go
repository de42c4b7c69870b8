package contract

import (
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

// Paillier operation types.
const (
	PaillierAddCiphertext = "AddCiphertext"
	PaillierAddPlaintext  = "AddPlaintext"
	PaillierSubCiphertext = "SubCiphertext"
	PaillierSubPlaintext  = "SubPlaintext"
	PaillierNumMul        = "NumMul"
)

// Bulletproofs function names.
const (
	PedersenAddNum        = "PedersenAddNum"
	PedersenAddCommitment = "PedersenAddCommitment"
	PedersenSubNum        = "PedersenSubNum"
	PedersenSubCommitment = "PedersenSubCommitment"
	PedersenMulNum        = "PedersenMulNum"
	BulletproofsVerify    = "BulletproofsVerify"
)

// Paillier performs homomorphic arithmetic on Paillier ciphertexts. The host
// does the computation; the contract only supplies operands.
type Paillier struct {
	caller *bridge.Caller
}

// Paillier returns the Paillier operations of the invocation.
func (c *Context) Paillier() *Paillier {
	return &Paillier{caller: c.caller}
}

func (p *Paillier) AddCiphertext(pubKey, ct1, ct2 []byte) ([]byte, error) {
	return p.operate(PaillierAddCiphertext, pubKey, ct1, ct2)
}

func (p *Paillier) AddPlaintext(pubKey, ct []byte, plaintext string) ([]byte, error) {
	return p.operate(PaillierAddPlaintext, pubKey, ct, []byte(plaintext))
}

func (p *Paillier) SubCiphertext(pubKey, ct1, ct2 []byte) ([]byte, error) {
	return p.operate(PaillierSubCiphertext, pubKey, ct1, ct2)
}

func (p *Paillier) SubPlaintext(pubKey, ct []byte, plaintext string) ([]byte, error) {
	return p.operate(PaillierSubPlaintext, pubKey, ct, []byte(plaintext))
}

func (p *Paillier) NumMul(pubKey, ct []byte, plaintext string) ([]byte, error) {
	return p.operate(PaillierNumMul, pubKey, ct, []byte(plaintext))
}

func (p *Paillier) operate(opType string, pubKey, one, two []byte) ([]byte, error) {
	body := easycodec.New()
	body.AddBytes("pubKey", pubKey)
	body.AddBytes("operandOne", one)
	body.AddBytes("operandTwo", two)
	body.AddString("opType", opType)
	return p.caller.FetchBytes(bridge.MethodGetPaillierOperationResultLen, bridge.MethodGetPaillierOperationResult, body)
}

// Bulletproofs performs Pedersen commitment arithmetic and range proof
// verification on the host.
type Bulletproofs struct {
	caller *bridge.Caller
}

// Bulletproofs returns the Bulletproofs operations of the invocation.
func (c *Context) Bulletproofs() *Bulletproofs {
	return &Bulletproofs{caller: c.caller}
}

func (b *Bulletproofs) PedersenAddNum(commitment []byte, num string) ([]byte, error) {
	return b.operate(PedersenAddNum, commitment, []byte(num))
}

func (b *Bulletproofs) PedersenAddCommitment(c1, c2 []byte) ([]byte, error) {
	return b.operate(PedersenAddCommitment, c1, c2)
}

func (b *Bulletproofs) PedersenSubNum(commitment []byte, num string) ([]byte, error) {
	return b.operate(PedersenSubNum, commitment, []byte(num))
}

func (b *Bulletproofs) PedersenSubCommitment(c1, c2 []byte) ([]byte, error) {
	return b.operate(PedersenSubCommitment, c1, c2)
}

func (b *Bulletproofs) PedersenMulNum(commitment []byte, num string) ([]byte, error) {
	return b.operate(PedersenMulNum, commitment, []byte(num))
}

// Verify checks a range proof against its commitment. The host answers with
// its own encoding of the verdict.
func (b *Bulletproofs) Verify(proof, commitment []byte) ([]byte, error) {
	return b.operate(BulletproofsVerify, proof, commitment)
}

func (b *Bulletproofs) operate(funcName string, param1, param2 []byte) ([]byte, error) {
	body := easycodec.New()
	body.AddBytes("param1", param1)
	body.AddBytes("param2", param2)
	body.AddString("bulletproofsFuncName", funcName)
	return b.caller.FetchBytes(bridge.MethodGetBulletproofsResultLen, bridge.MethodGetBulletproofsResult, body)
}
