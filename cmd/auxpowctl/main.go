// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/tmthrgd/go-hex"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpowd/node/blockchain"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/wire"

	_ "gitlab.com/jaxnet/auxpowd/database/bdb"
	_ "gitlab.com/jaxnet/auxpowd/database/ldb"
)

const (
	flagNet       = "net"
	flagHeader    = "header"
	flagJSON      = "json"
	flagTime      = "time"
	flagNonce     = "nonce"
	flagChainID   = "chain-id"
	flagBranchLen = "branch-len"
	flagHeight    = "height"
	flagCSV       = "csv"
	flagAll       = "all"
	flagDB        = "db"
	flagDBType    = "dbtype"
	flagOut       = "out"
)

func main() {
	err := newCliApp(os.Stdout).Run(os.Args)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

// App holds the state shared by the commands.
type App struct {
	params *chaincfg.Params
}

func newCliApp(out io.Writer) *cli.App {
	app := &App{}
	return &cli.App{
		Name:    "auxpowctl",
		Usage:   "offline inspection of merge mined headers",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagNet,
				Aliases: []string{"n"},
				Value:   chaincfg.MainNetParams.Name,
				Usage:   "network parameters {mainnet, testnet, regtest}",
			},
		},
		Before:    app.initNet,
		Commands:  app.getCommands(),
		Writer:    out,
		ErrWriter: out,
	}
}

func (app *App) initNet(c *cli.Context) error {
	params, err := chaincfg.ChainFromName(c.String(flagNet))
	if err != nil {
		return errors.Wrapf(err, "invalid network %q", c.String(flagNet))
	}
	app.params = params
	return nil
}

func (app *App) getCommands() cli.Commands {
	headerFlag := &cli.StringFlag{
		Name:    flagHeader,
		Aliases: []string{"x"},
		Usage:   "hex-encoded header, with the AuxPow payload when flagged",
	}

	return []*cli.Command{
		{
			Name:  "decode",
			Usage: "decode a hex encoded header",
			Flags: []cli.Flag{
				headerFlag,
				&cli.BoolFlag{Name: flagJSON, Aliases: []string{"j"}, Usage: "print JSON instead of a dump"},
			},
			Action: app.decodeCmd,
		},
		{
			Name:  "verify",
			Usage: "run the context free checks of a header",
			Flags: []cli.Flag{
				headerFlag,
				&cli.Int64Flag{Name: flagTime, Usage: "adjusted unix time, now when omitted"},
			},
			Action: app.verifyCmd,
		},
		{
			Name:  "expected-index",
			Usage: "print the chain merkle slot for a nonce",
			Flags: []cli.Flag{
				&cli.Uint64Flag{Name: flagNonce, Required: true, Usage: "merged mining nonce"},
				&cli.Uint64Flag{Name: flagChainID, Usage: "chain id, the network id when omitted"},
				&cli.IntFlag{Name: flagBranchLen, Required: true, Usage: "number of hashes in the chain branch"},
			},
			Action: app.expectedIndexCmd,
		},
		{
			Name:  "subsidy",
			Usage: "print the block subsidy schedule",
			Flags: []cli.Flag{
				&cli.IntSliceFlag{Name: flagHeight, Usage: "heights to print, a default schedule when omitted"},
			},
			Action: app.subsidyCmd,
		},
		{
			Name:  "next-bits",
			Usage: "replay a CSV header export and check the difficulty of every header",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagCSV, Required: true, Usage: "CSV file written by export"},
				&cli.BoolFlag{Name: flagAll, Usage: "print matching headers as well"},
			},
			Action: app.nextBitsCmd,
		},
		{
			Name:  "export",
			Usage: "dump the main chain of a header database to CSV",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagDB, Required: true, Usage: "path of the header database"},
				&cli.StringFlag{Name: flagDBType, Value: "leveldb", Usage: "database backend"},
				&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "output file, stdout when omitted"},
			},
			Action: app.exportCmd,
		},
	}
}

// readHeader decodes the header given by the header flag or the first
// argument.
func readHeader(c *cli.Context) (*wire.BlockHeader, error) {
	data := c.String(flagHeader)
	if data == "" {
		data = c.Args().First()
	}
	if data == "" {
		return nil, errors.New("header is not provided")
	}

	raw, err := hex.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex")
	}
	return chaindata.DecodeHeader(raw)
}

func (app *App) verifyCmd(c *cli.Context) error {
	header, err := readHeader(c)
	if err != nil {
		return err
	}

	adjustedTime := time.Now()
	if c.IsSet(flagTime) {
		adjustedTime = time.Unix(c.Int64(flagTime), 0)
	}

	hash := header.BlockHash()
	if err := chaindata.CheckBlockHeaderSanity(header, app.params, adjustedTime); err != nil {
		return errors.Wrapf(err, "header %s is invalid", hash)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "header %s is valid on %s\n", hash, app.params.Name)
	if header.AuxPow != nil {
		fmt.Fprintf(w, "merge mined in parent %s\n", header.AuxPow.ParentBlockHash())
	}
	return nil
}

func (app *App) expectedIndexCmd(c *cli.Context) error {
	chainID := app.params.ChainID
	if c.IsSet(flagChainID) {
		chainID = uint32(c.Uint64(flagChainID))
	}

	branchLen := c.Int(flagBranchLen)
	if branchLen < 0 || branchLen >= 32 {
		return errors.Errorf("branch length %d is out of range [0, 31]", branchLen)
	}

	index := chaindata.GetExpectedIndex(uint32(c.Uint64(flagNonce)), chainID, branchLen)
	fmt.Fprintln(c.App.Writer, index)
	return nil
}

var defaultSubsidyHeights = []int{0, 99999, 100000, 144999, 145000, 199999, 200000,
	300000, 400000, 500000, 599999, 600000}

func (app *App) subsidyCmd(c *cli.Context) error {
	heights := c.IntSlice(flagHeight)
	if len(heights) == 0 {
		heights = defaultSubsidyHeights
	}

	rows := make([][]string, 0, len(heights))
	for _, height := range heights {
		if height < 0 {
			return errors.Errorf("negative height %d", height)
		}
		subsidy := blockchain.CalcBlockSubsidy(int32(height), app.params)
		rows = append(rows, []string{
			fmt.Sprintf("%d", height),
			fmt.Sprintf("%d", subsidy/chaincfg.KoinuPerDoge),
			fmt.Sprintf("%d", subsidy),
		})
	}

	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Height", "Subsidy (DOGE)", "Subsidy (koinu)"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}
