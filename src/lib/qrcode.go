package lib

import (
	"log"

	"github.com/yeqown/go-qrcode"
)

func SaveQRCode(text string, filepath string) error {
	qrc, err := qrcode.New(text)
	if err != nil {
		return err
	}
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return err
	}
	return nil
}
