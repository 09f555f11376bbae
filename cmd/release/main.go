// release pushes a firmware image to a device running the update protocol.
// The image (Intel hex or ELF) is turned into a stream of hex lines: page
// erases for every page it touches, the data itself, and the entry point.
// The device acknowledges each line with '.' or refuses it with '!', and
// refused lines are retransmitted.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	ttyPath  string
	testFlag bool
	verbose  int
	entry    uint32
)

var rootCmd = &cobra.Command{
	Use:   "release [firmware image]",
	Short: "burn a firmware image into on-chip flash over a serial link",
	Args:  cobra.ExactArgs(1),
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	//.env can carry RELEASE_TTY so the device path doesn't have to be typed
	//every time
	_ = godotenv.Load()

	rootCmd.Flags().StringVarP(&ttyPath, "tty", "p", os.Getenv("RELEASE_TTY"), "serial device connected to the target")
	rootCmd.Flags().BoolVarP(&testFlag, "test", "t", false, "encode the image and decode every line to see if they match")
	rootCmd.Flags().IntVarP(&verbose, "verbose", "v", 0, "verbosity level: 0 terse (default), 1 debug info, 2 show everything")
	rootCmd.Flags().Uint32Var(&entry, "entry", 0, "override the image's entry point")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("entry") {
		img.entry = entry
		img.entrySet = true
	}
	if verbose > 0 {
		log.Printf("@@@ image %s: %d segments, %d pages, entry %08x",
			args[0], len(img.segments), len(img.pagesTouched()), img.entry)
	}

	if testFlag {
		v := newVerifyIOProto()
		if err := protocol(args[0], img, v); err != nil {
			return err
		}
		if err := v.checkAgainst(img); err != nil {
			return err
		}
		log.Printf("verified all the data bytes, page erases, and the entry point.")
	}
	if ttyPath != "" {
		oh, err := newTTYIOProto(ttyPath)
		if err != nil {
			return err
		}
		if err := protocol(args[0], img, oh); err != nil {
			return err
		}
		log.Printf("transmission successful: %s", args[0])
		tailDeviceLog(oh)
	}
	if !testFlag && ttyPath == "" {
		log.Printf("neither -t nor -p supplied, not doing anything")
	}
	return nil
}

func buildEmitters(img *image, oh ioProto) []emitter {
	emitterList := []emitter{newEraseEmitter(img.pagesTouched(), oh)}
	for _, s := range img.segments {
		emitterList = append(emitterList, newSegmentEmitter(s, oh))
	}
	if img.entrySet {
		emitterList = append(emitterList, newEntryPointEmitter(img.entry, oh))
	}
	return emitterList
}

//
// Protocol Loop
//

func protocol(filename string, img *image, oh ioProto) error {
	tx := newTransmitLooper(buildEmitters(img, oh), oh)
	if !tx.current.moreLines() && !tx.next() {
		return errors.New("unable to find any data to release")
	}
	if verbose > 0 {
		log.Printf("@@@ file %s, %s", filename, tx.current.name())
	}
	if err := sendLineToDevice(tx); err != nil {
		return err
	}
outer:
	for {
		l, err := tx.read()
		if err != nil {
			return errors.Wrap(err, "reading from tty")
		}
		if verbose == 2 {
			log.Printf("<-- %s", l)
		}
		if len(l) == 0 {
			log.Printf("ignoring empty line")
			continue
		}

		switch l[0] {
		case '#': //comment
			log.Print("### ", l[1:])
		case '@': //debug info
			if verbose > 0 {
				log.Print("@@@ ", l[1:])
			}
		case '!': //error
			if verbose < 2 { //verbose user has already seen this, no sense repeating
				log.Printf("!!! %s", l[1:])
			}
			log.Printf("RETRY addr 0x%08x in %s\n", tx.current.currentAddr(), tx.current.name())
			tx.errorCount++
			switch {
			case tx.errorCount > 5:
				return errors.New("aborting, too many errors in a row")
			case tx.errorCount > 2 && tx.state != tsEnd:
				tx.current.reset()
			default:
				tx.current.retry()
			}
			if err := sendLineToDevice(tx); err != nil {
				return err
			}
		case '.':
			tx.errorCount = 0 //no more consecutive errors
			if tx.state == tsEnd {
				break outer //EOF acknowledged
			}
			if !tx.current.moreLines() {
				if tx.next() && verbose > 0 {
					log.Printf("@@@ file %s, %s", filename, tx.current.name())
				}
			}
			if err := sendLineToDevice(tx); err != nil {
				return err
			}
		default:
			log.Printf("ignoring unexpected response: %s", l)
		}
	}
	return nil
}

// tailDeviceLog echoes whatever the device prints after the transfer, which
// is usually the freshly flashed firmware booting.
func tailDeviceLog(oh ioProto) {
	log.Printf("--- device log ---")
	buffer := make([]uint8, 256)
	for {
		l, err := oh.Read(buffer)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to read from device: %v", err)
		}
		if len(l) == 0 {
			continue
		}
		switch l[0] {
		case '@':
			if verbose > 0 {
				fmt.Printf("@@@ %s\n", l[1:])
			}
		case '!':
			fmt.Printf("!!! %s\n", l[1:])
		case '#':
			fmt.Printf("### %s\n", l[1:])
		default:
			fmt.Printf("%s\n", l)
		}
	}
}

func sendLineToDevice(tx *transmitLooper) error {
	l, err := tx.line()
	if err != nil {
		return errors.Wrap(err, "sending next line")
	}
	if verbose == 2 {
		log.Printf("--> %s", l)
	}
	return nil
}
