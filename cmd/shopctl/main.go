// shopctl is a small offline tool for GeniusShop config directories:
// it validates what the permissive parser makes of the files and converts
// the deprecated combined gui.yml into the split menu files.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/shopyaml"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		cmdCheck(os.Args[2:])
	case "convert":
		cmdConvert(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: shopctl <command> [flags]

Commands:
  check <dir>              parse a config directory and report what was read
  convert [-keep] <dir>    split a legacy gui.yml into the three menu files
`)
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shopctl check <dir>")
		os.Exit(1)
	}

	snap := loadDir(fs.Arg(0))

	names := make([]string, 0, len(snap.Shops))
	for name := range snap.Shops {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		doc := shopyaml.ParseShop(snap.Shops[name])
		fmt.Printf("%s: %q, %d rows, %d items\n", name, doc.GUIName, doc.Rows, len(doc.Items))
	}

	if snap.LegacyGUI != "" {
		menu, purchase, sell := shopyaml.ParseLegacyGUI(snap.LegacyGUI)
		fmt.Printf("gui.yml (legacy): menu %q with %d buttons, purchase prefix %q, sell prefix %q\n",
			menu.Title, len(menu.Buttons), purchase.TitlePrefix, sell.TitlePrefix)
		fmt.Println("hint: run 'shopctl convert' to split gui.yml into the current format")
		return
	}

	menu := shopyaml.ParseMainMenu(snap.MainMenu)
	fmt.Printf("main-menu.yml: %q, %d rows, %d buttons\n", menu.Title, menu.Rows, len(menu.Buttons))
	purchase := shopyaml.ParsePurchaseMenu(snap.PurchaseMenu)
	fmt.Printf("purchase-menu.yml: prefix %q, display slot %d\n", purchase.TitlePrefix, purchase.DisplaySlot)
	sell := shopyaml.ParseSellMenu(snap.SellMenu)
	fmt.Printf("sell-menu.yml: prefix %q, display slot %d\n", sell.TitlePrefix, sell.DisplaySlot)
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	keep := fs.Bool("keep", false, "keep gui.yml after conversion")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shopctl convert [-keep] <dir>")
		os.Exit(1)
	}

	dir, err := files.NewDir(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	snap, err := dir.LoadAll()
	if err != nil {
		fatal(err)
	}
	if snap.LegacyGUI == "" {
		fmt.Println("no gui.yml found, nothing to convert")
		return
	}

	menu, purchase, sell := shopyaml.ParseLegacyGUI(snap.LegacyGUI)

	if err := dir.Save(files.MainMenuFile, shopyaml.SerializeMainMenu(menu)); err != nil {
		fatal(err)
	}
	if err := dir.Save(files.PurchaseMenuFile, shopyaml.SerializePurchaseMenu(purchase)); err != nil {
		fatal(err)
	}
	if err := dir.Save(files.SellMenuFile, shopyaml.SerializeSellMenu(sell)); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s, %s, %s\n", files.MainMenuFile, files.PurchaseMenuFile, files.SellMenuFile)

	if *keep {
		fmt.Println("gui.yml kept; the editor will keep using it until it is removed")
		return
	}
	if err := dir.Delete(files.LegacyGUIFile); err != nil {
		fatal(err)
	}
	fmt.Println("gui.yml removed")
}

func loadDir(path string) *files.Snapshot {
	dir, err := files.NewDir(path)
	if err != nil {
		fatal(err)
	}
	snap, err := dir.LoadAll()
	if err != nil {
		fatal(err)
	}
	return snap
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
