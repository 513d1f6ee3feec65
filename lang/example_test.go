package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/tagfilter/lang"
)

func ExampleTokenize() {
	for _, tok := range lang.Tokenize("$foo bar @any[baz]") {
		fmt.Println(tok)
	}
	// Output:
	// TagExact("foo")
	// Tag("bar")
	// FunIdent("any")
	// LBracket
	// Tag("baz")
	// RBracket
}

func ExampleParse() {
	ast, err := lang.Parse(context.Background(), "@any[cat @all[dog stick]] !$wet")
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = ast.Print(os.Stdout)
	// Output:
	// FnCall: any
	//   Tag: cat
	//   FnCall: all
	//     Tag: dog
	//     Tag: stick
	// Not
	//   TagExact: wet
}

func ExampleParse_error() {
	_, err := lang.Parse(context.Background(), "@foo[")

	fmt.Println(errors.Is(err, lang.ErrUnexpectedEnd))
	fmt.Print(err)
	// Output:
	// true
	// unexpected end of query at offset 5:
	//   | @foo[
	//          ^
}

func ExampleAST_Format() {
	ast, _ := lang.Parse(context.Background(), "a  @all[ b !c ]")

	_ = ast.Format(context.Background(), os.Stdout, 0)
	_ = ast.Format(context.Background(), os.Stdout, 2)
	// Output:
	// a @all[b !c]
	// a
	// @all[
	//   b
	//   !c
	// ]
}
