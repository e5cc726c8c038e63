// Package jcat renders JSON documents for reading in a terminal.
//
// Documents are decoded into an order-preserving Value tree and laid out in
// literal notation (None, True, 'text') constrained to a column width:
// containers stay on one line when they fit and wrap with nested
// indentation when they do not. The rendering is then syntax highlighted
// with chroma. The json and compact formats render strict JSON instead.
//
// Basic usage:
//
//	src := []byte(`{"a": 1, "b": [1, 2, 3]}`)
//	opts := *jcat.DefaultOptions
//	opts.Width = 10
//	opts.Style = "none"
//	out, err := jcat.Pretty(src, &opts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(string(out))
//
// Streaming several documents:
//
//	p, err := jcat.New(&jcat.Options{Width: 120, Indent: 1, SortKeys: true, Compact: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := p.Print(os.Stdout, "<stdin>", os.Stdin); err != nil {
//		log.Fatal(err)
//	}
package jcat
