package sms

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/sms/smstypes"
	"github.com/devsquad/momo-sms-etl/internal/types/optional"
)

var smsErr = errs.Class("sms")

const (
	attrAddress       = "address"
	attrDate          = "date"
	attrReadableDate  = "readable_date"
	attrServiceCenter = "service_center"
	attrContactName   = "contact_name"
	attrBody          = "body"
	attrProtocol      = "protocol"
)

type backupDocument struct {
	Messages []smsElement `xml:"sms"`
}

type smsElement struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (e smsElement) attributes() map[string]string {
	m := make(map[string]string, len(e.Attrs))
	for _, a := range e.Attrs {
		m[a.Name.Local] = a.Value
	}

	return m
}

// ReadBackup decodes an SMS backup document. Any structural problem fails the
// whole document; no partial result is returned.
func ReadBackup(r io.Reader) (_ []smstypes.RawMessage, err error) {
	defer func() {
		err = smsErr.Wrap(err)
	}()

	dec := xml.NewDecoder(r)

	var doc backupDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.New("malformed backup document: %w", err)
	}

	if err := expectEnd(dec); err != nil {
		return nil, errs.New("malformed backup document: %w", err)
	}

	msgs := make([]smstypes.RawMessage, 0, len(doc.Messages))
	for i, el := range doc.Messages {
		msg, err := toRawMessage(el.attributes())
		if err != nil {
			return nil, errs.New("sms element %d: %w", i+1, err)
		}

		msgs = append(msgs, msg)
	}

	return msgs, nil
}

// expectEnd accepts only whitespace, comments and processing instructions
// after the root element.
func expectEnd(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errs.New("text after the root element")
			}
		default:
			return errs.New("unexpected %T after the root element", tok)
		}
	}
}

func ReadBackupFile(path string) (_ []smstypes.RawMessage, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, smsErr.Wrap(err)
	}
	defer f.Close()

	return ReadBackup(f)
}

func toRawMessage(attrs map[string]string) (smstypes.RawMessage, error) {
	lookup := func(name string) optional.Value[string] {
		v, ok := attrs[name]
		if !ok {
			return optional.None[string]()
		}
		return optional.Some(v)
	}

	protocol := int64(0)
	if raw, ok := attrs[attrProtocol]; ok {
		p, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return smstypes.RawMessage{}, errs.New("protocol %q is not an integer", raw)
		}
		protocol = p
	}

	return smstypes.RawMessage{
		Address:       lookup(attrAddress),
		Date:          lookup(attrDate),
		ReadableDate:  lookup(attrReadableDate),
		ServiceCenter: lookup(attrServiceCenter),
		ContactName:   lookup(attrContactName),
		Body:          attrs[attrBody],
		Protocol:      protocol,
	}, nil
}
