/*
Copyright 2023 Loggie Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package charset

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

const UTF8 = "utf-8"

// Only ASCII compatible encodings are listed: records are split on '\n' before
// they are decoded.
var AllEncodings = map[string]encoding.Encoding{
	UTF8: encoding.Nop,

	// simplified chinese
	"gbk":     simplifiedchinese.GBK,
	"gb18030": simplifiedchinese.GB18030,

	// traditional chinese
	"big5": traditionalchinese.Big5,

	// japanese
	"euc-jp":    japanese.EUCJP,
	"shift-jis": japanese.ShiftJIS,

	// korean
	"euc-kr": korean.EUCKR,

	"iso8859-1":  charmap.ISO8859_1,
	"iso8859-2":  charmap.ISO8859_2,
	"iso8859-5":  charmap.ISO8859_5,
	"iso8859-7":  charmap.ISO8859_7,
	"iso8859-9":  charmap.ISO8859_9,
	"iso8859-15": charmap.ISO8859_15,

	"koi8r": charmap.KOI8R,
	"koi8u": charmap.KOI8U,

	"windows1250": charmap.Windows1250,
	"windows1251": charmap.Windows1251,
	"windows1252": charmap.Windows1252,
	"windows1253": charmap.Windows1253,
	"windows1254": charmap.Windows1254,
	"windows1256": charmap.Windows1256,
}

var aliases = map[string]string{
	"utf8":         UTF8,
	"us-ascii":     UTF8,
	"ascii":        UTF8,
	"latin1":       "iso8859-1",
	"iso-8859-1":   "iso8859-1",
	"iso-8859-2":   "iso8859-2",
	"iso-8859-5":   "iso8859-5",
	"iso-8859-7":   "iso8859-7",
	"iso-8859-9":   "iso8859-9",
	"iso-8859-15":  "iso8859-15",
	"shift_jis":    "shift-jis",
	"windows-1250": "windows1250",
	"windows-1251": "windows1251",
	"windows-1252": "windows1252",
	"windows-1253": "windows1253",
	"windows-1254": "windows1254",
	"windows-1256": "windows1256",
}

// Canonical returns the registered name for charset, accepting common aliases.
func Canonical(charset string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if name == "" {
		return UTF8, true
	}
	if a, ok := aliases[name]; ok {
		name = a
	}
	_, ok := AllEncodings[name]
	return name, ok
}

func Lookup(charset string) (encoding.Encoding, error) {
	name, ok := Canonical(charset)
	if !ok {
		return nil, errors.Errorf("charset %s is not supported", charset)
	}
	return AllEncodings[name], nil
}

// Decoder converts text of one charset into UTF-8. Decoders keep state and
// must not be shared between parsers.
type Decoder struct {
	charset string
	decoder *encoding.Decoder
}

func NewDecoder(charset string) (*Decoder, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	name, _ := Canonical(charset)
	return &Decoder{
		charset: name,
		decoder: enc.NewDecoder(),
	}, nil
}

func (d *Decoder) Charset() string {
	return d.charset
}

// Decode returns b unchanged for utf-8, otherwise a freshly allocated UTF-8 copy.
func (d *Decoder) Decode(b []byte) ([]byte, error) {
	if d.charset == UTF8 {
		return b, nil
	}
	out, err := d.decoder.Bytes(b)
	if err != nil {
		return nil, errors.WithMessagef(err, "decode %s", d.charset)
	}
	return out, nil
}

// Encode converts UTF-8 text into charset.
func Encode(charset string, text []byte) ([]byte, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder().Bytes(text)
}
