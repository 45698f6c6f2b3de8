package dexterity

import (
	"strconv"

	ast "blaze/internal/codegen/clarityast"
)

var (
	sender   = ast.A("sender")
	contract = ast.A("CONTRACT")
	amount   = ast.A("amount")
	opcodeTy = ast.L(ast.A("optional"), ast.L(ast.A("buff"), ast.A("16")))
)

func call(name string, args ...ast.Node) ast.List {
	return ast.L(append([]ast.Node{ast.A(name)}, args...)...)
}

func param(name, typ string) ast.Node {
	return ast.L(ast.A(name), ast.A(typ))
}

func get(field string, from string) ast.Node {
	return call("get", ast.A(field), ast.A(from))
}

func binding(name string, value ast.Node) ast.Node {
	return ast.L(ast.A(name), value)
}

// let renders (let ((name value) ...) body...).
func let(bindings []ast.Node, body ...ast.Node) ast.Node {
	items := []ast.Node{ast.A("let"), ast.List{Items: bindings, Head: 1}}
	items = append(items, body...)
	return ast.Form(2, items...)
}

func header(name string) []ast.Node {
	return []ast.Node{
		ast.Comment("Title: " + name),
		ast.Comment("Version: 1.0.0"),
		ast.Comment("Description:"),
		ast.Comment("  Implementation of the standard trait interface for liquidity pools on the Stacks blockchain."),
		ast.Comment("  Provides automated market making functionality between two SIP-010 compliant tokens."),
		ast.Comment("  Implements SIP-010 fungible token standard for LP token compatibility."),
		ast.Blank{},
		ast.Comment("Traits"),
		call("impl-trait", ast.A(sip010Trait)),
		call("impl-trait", ast.A(liquidityPoolTrait)),
		ast.Blank{},
	}
}

func constants(rebate string, params Params) []ast.Node {
	define := func(name string, value ast.Node) ast.Node {
		return call("define-constant", ast.A(name), value)
	}
	return []ast.Node{
		ast.Comment("Constants"),
		define("DEPLOYER", ast.A("tx-sender")),
		define("CONTRACT", call("as-contract", ast.A("tx-sender"))),
		define("ERR_UNAUTHORIZED", call("err", ast.U("403"))),
		define("ERR_INVALID_OPERATION", call("err", ast.U("400"))),
		define("PRECISION", ast.U("1000000")),
		define("LP_REBATE", ast.U(rebate)),
		ast.Blank{},
		ast.Comment("Operation Types (Byte 0 of opcode)"),
		define("OP_SWAP_A_TO_B", ast.A("0x00")),
		define("OP_SWAP_B_TO_A", ast.A("0x01")),
		define("OP_ADD_LIQUIDITY", ast.A("0x02")),
		define("OP_REMOVE_LIQUIDITY", ast.A("0x03")),
		ast.Blank{},
		ast.Comment("Define LP token"),
		call("define-fungible-token", ast.A(params.LPTokenSymbol)),
		ast.List{Items: []ast.Node{
			ast.A("define-data-var"),
			ast.A("token-uri"),
			call("optional", call("string-utf8", ast.A("256"))),
			call("some", ast.UTF8Str(params.TokenURI)),
		}, Head: 3},
		ast.Blank{},
	}
}

func sip010Functions(name, symbol string) []ast.Node {
	lp := ast.A(symbol)
	readOnly := func(signature, body ast.Node) ast.Node {
		return ast.Form(2, ast.A("define-read-only"), signature, body)
	}
	return []ast.Node{
		ast.Comment("--- SIP10 Functions ---"),
		ast.Blank{},
		ast.Form(2, ast.A("define-public"),
			call("transfer",
				param("amount", "uint"),
				param("sender", "principal"),
				param("recipient", "principal"),
				ast.L(ast.A("memo"), call("optional", call("buff", ast.A("34"))))),
			ast.Form(1, ast.A("begin"),
				call("asserts!", call("is-eq", ast.A("tx-sender"), sender), ast.A("ERR_UNAUTHORIZED")),
				call("try!", call("ft-transfer?", lp, amount, sender, ast.A("recipient"))),
				call("match", ast.A("memo"), ast.A("to-print"), call("print", ast.A("to-print")), ast.A("0x0000")),
				call("ok", ast.A("true")))),
		ast.Blank{},
		readOnly(call("get-name"), call("ok", ast.Str(name))),
		ast.Blank{},
		readOnly(call("get-symbol"), call("ok", ast.Str(symbol))),
		ast.Blank{},
		readOnly(call("get-decimals"), call("ok", ast.U("6"))),
		ast.Blank{},
		readOnly(call("get-balance", param("who", "principal")), call("ok", call("ft-get-balance", lp, ast.A("who")))),
		ast.Blank{},
		readOnly(call("get-total-supply"), call("ok", call("ft-get-supply", lp))),
		ast.Blank{},
		readOnly(call("get-token-uri"), call("ok", call("var-get", ast.A("token-uri")))),
		ast.Blank{},
		ast.Form(2, ast.A("define-public"),
			call("set-token-uri", ast.L(ast.A("uri"), call("string-utf8", ast.A("256")))),
			ast.Form(2, ast.A("if"),
				call("is-eq", ast.A("contract-caller"), ast.A("DEPLOYER")),
				call("ok", call("var-set", ast.A("token-uri"), call("some", ast.A("uri")))),
				ast.A("ERR_UNAUTHORIZED"))),
		ast.Blank{},
	}
}

// dispatch renders the nested opcode ifs shared by execute and quote.
func dispatch(branches []ast.Node) ast.Node {
	ops := []string{"OP_SWAP_A_TO_B", "OP_SWAP_B_TO_A", "OP_ADD_LIQUIDITY", "OP_REMOVE_LIQUIDITY"}
	var out ast.Node = ast.A("ERR_INVALID_OPERATION")
	for i := len(ops) - 1; i >= 0; i-- {
		out = ast.Form(2, ast.A("if"), call("is-eq", ast.A("operation"), ast.A(ops[i])), branches[i], out)
	}
	return out
}

func coreFunctions() []ast.Node {
	opcode := ast.A("opcode")
	return []ast.Node{
		ast.Comment("--- Core Functions ---"),
		ast.Blank{},
		ast.Form(2, ast.A("define-public"),
			call("execute", param("amount", "uint"), ast.L(opcode, opcodeTy)),
			let([]ast.Node{
				binding("sender", ast.A("tx-sender")),
				binding("operation", call("get-byte", opcode, ast.U("0"))),
			}, dispatch([]ast.Node{
				call("swap-a-to-b", amount),
				call("swap-b-to-a", amount),
				call("add-liquidity", amount),
				call("remove-liquidity", amount),
			}))),
		ast.Blank{},
		ast.Form(2, ast.A("define-read-only"),
			call("quote", param("amount", "uint"), ast.L(opcode, opcodeTy)),
			let([]ast.Node{
				binding("operation", call("get-byte", opcode, ast.U("0"))),
			}, dispatch([]ast.Node{
				call("ok", call("get-swap-quote", amount, opcode)),
				call("ok", call("get-swap-quote", amount, opcode)),
				call("ok", call("get-liquidity-quote", amount)),
				call("ok", call("get-liquidity-quote", amount)),
			}))),
		ast.Blank{},
	}
}

func executeFunctions(tokenA, tokenB token, symbol string) []ast.Node {
	lp := ast.A(symbol)
	dy := get("dy", "delta")
	dx := get("dx", "delta")
	dk := get("dk", "delta")
	swapQuote := func(op string) ast.Node {
		return call("get-swap-quote", amount, call("some", ast.A(op)))
	}
	public := func(name string, body ast.Node) ast.Node {
		return ast.Form(2, ast.A("define-public"), call(name, param("amount", "uint")), body)
	}

	return []ast.Node{
		ast.Comment("--- Execute Functions ---"),
		ast.Blank{},
		public("swap-a-to-b", let(
			[]ast.Node{binding("sender", ast.A("tx-sender")), binding("delta", swapQuote("OP_SWAP_A_TO_B"))},
			ast.Comment("Transfer token A to pool"),
			transferIn(tokenA, amount, sender, contract),
			ast.Comment("Transfer token B to sender"),
			transferOut(tokenB, dy, contract, sender),
			call("ok", ast.A("delta")),
		)),
		ast.Blank{},
		public("swap-b-to-a", let(
			[]ast.Node{binding("sender", ast.A("tx-sender")), binding("delta", swapQuote("OP_SWAP_B_TO_A"))},
			ast.Comment("Transfer token B to pool"),
			transferIn(tokenB, amount, sender, contract),
			ast.Comment("Transfer token A to sender"),
			transferOut(tokenA, dy, contract, sender),
			call("ok", ast.A("delta")),
		)),
		ast.Blank{},
		public("add-liquidity", let(
			[]ast.Node{binding("sender", ast.A("tx-sender")), binding("delta", call("get-liquidity-quote", amount))},
			transferIn(tokenA, dx, sender, contract),
			transferIn(tokenB, dy, sender, contract),
			call("try!", call("ft-mint?", lp, dk, sender)),
			call("ok", ast.A("delta")),
		)),
		ast.Blank{},
		public("remove-liquidity", let(
			[]ast.Node{binding("sender", ast.A("tx-sender")), binding("delta", call("get-liquidity-quote", amount))},
			call("try!", call("ft-burn?", lp, dk, sender)),
			transferOut(tokenA, dx, contract, sender),
			transferOut(tokenB, dy, contract, sender),
			call("ok", ast.A("delta")),
		)),
		ast.Blank{},
	}
}

func helperFunctions(tokenA, tokenB token) []ast.Node {
	opcode := ast.A("opcode")
	return []ast.Node{
		ast.Comment("--- Helper Functions ---"),
		ast.Blank{},
		ast.Form(2, ast.A("define-private"),
			call("get-byte", ast.L(opcode, opcodeTy), param("position", "uint")),
			call("default-to", ast.A("0x00"),
				call("element-at?", call("default-to", ast.A("0x00"), opcode), ast.A("position")))),
		ast.Blank{},
		ast.Form(2, ast.A("define-private"),
			call("get-reserves"),
			ast.Tuple{Fields: []ast.Field{
				{Name: "a", Value: balanceOf(tokenA, contract)},
				{Name: "b", Value: balanceOf(tokenB, contract)},
			}, Break: true}),
		ast.Blank{},
	}
}

func quoteFunctions(symbol string) []ast.Node {
	lp := ast.A(symbol)
	opcode := ast.A("opcode")
	reserves := func(field string) ast.Node { return get(field, "reserves") }
	return []ast.Node{
		ast.Comment("--- Quote Functions ---"),
		ast.Blank{},
		ast.Form(2, ast.A("define-read-only"),
			call("get-swap-quote", param("amount", "uint"), ast.L(opcode, opcodeTy)),
			let([]ast.Node{
				binding("reserves", call("get-reserves")),
				binding("operation", call("get-byte", opcode, ast.U("0"))),
				binding("is-a-in", call("is-eq", ast.A("operation"), ast.A("OP_SWAP_A_TO_B"))),
				binding("x", call("if", ast.A("is-a-in"), reserves("a"), reserves("b"))),
				binding("y", call("if", ast.A("is-a-in"), reserves("b"), reserves("a"))),
				binding("dx", call("/", call("*", amount, call("-", ast.A("PRECISION"), ast.A("LP_REBATE"))), ast.A("PRECISION"))),
				binding("numerator", call("*", ast.A("dx"), ast.A("y"))),
				binding("denominator", call("+", ast.A("x"), ast.A("dx"))),
				binding("dy", call("/", ast.A("numerator"), ast.A("denominator"))),
			}, ast.Tuple{Fields: []ast.Field{
				{Name: "dx", Value: ast.A("dx")},
				{Name: "dy", Value: ast.A("dy")},
				{Name: "dk", Value: ast.U("0")},
			}, Break: true})),
		ast.Blank{},
		ast.Form(2, ast.A("define-read-only"),
			call("get-liquidity-quote", param("amount", "uint")),
			let([]ast.Node{
				binding("k", call("ft-get-supply", lp)),
				binding("reserves", call("get-reserves")),
			}, ast.Tuple{Fields: []ast.Field{
				{Name: "dx", Value: call("if", call(">", ast.A("k"), ast.U("0")), call("/", call("*", amount, reserves("a")), ast.A("k")), amount)},
				{Name: "dy", Value: call("if", call(">", ast.A("k"), ast.U("0")), call("/", call("*", amount, reserves("b")), ast.A("k")), amount)},
				{Name: "dk", Value: amount},
			}, Break: true})),
		ast.Blank{},
	}
}

// initialization adds balanced liquidity, then tops up whichever side was larger so the
// pool opens at the requested ratio.
func initialization(tokenA, tokenB token, liquidityA, liquidityB uint64) []ast.Node {
	base := liquidityA
	if liquidityB < base {
		base = liquidityB
	}

	body := []ast.Node{
		ast.A("begin"),
		ast.Comment("Add initial balanced liquidity (handles both token transfers at 1:1)"),
		call("try!", call("add-liquidity", ast.U(strconv.FormatUint(base, 10)))),
	}
	if extra := liquidityA - base; extra > 0 {
		body = append(body,
			ast.Comment("Transfer additional token A to achieve desired ratio"),
			transferIn(tokenA, ast.U(strconv.FormatUint(extra, 10)), ast.A("tx-sender"), contract))
	}
	if extra := liquidityB - base; extra > 0 {
		body = append(body,
			ast.Comment("Transfer additional token B to achieve desired ratio"),
			transferIn(tokenB, ast.U(strconv.FormatUint(extra, 10)), ast.A("tx-sender"), contract))
	}

	return []ast.Node{
		ast.Comment("--- Initialization ---"),
		ast.Form(1, body...),
	}
}
