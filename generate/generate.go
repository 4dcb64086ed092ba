// Package generate writes random line-oriented sample data for exercising filesort.
package generate

import (
	"bufio"
	"io"
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// vocabulary is the set of words sample lines are built from.
var vocabulary = strings.Fields(`
aah aba ace ado aff age aha aid ain ait alb alp ama amu ane any
app arc ark art asp att ave awe axe azo bag bam bar bay beg bes
bib bin bit bob boo bot boy brr bug bur buy cab cam car cay cep
cis cog coo cos cox cru cud cup cuz dad dak dan daw dee den dew
dib dif din dit dog dom dos dry due dui duo ear ebb edh eel efs
ego elf elm emo end eon erg ers eta ewe fad fan fat fed fem fes
few fib fig fir fiz fob foh fop fox fry fug gab gag gan gas ged
gem gey gid gig gis goa goo got gul gut gym hae haj hap haw hem
her hew hic him his hob hog hoo how hue hum hut ich ids igg imp
ins irk ivy jam jay jeu jin jog joy jus kae kat kef kep khi kin
kis kob kor kye lad lam las law lea leg let lex lid lip lob lop
lox lum lux mad mam mar maw med mel met mib mig mir mmm moc moi
mon mor mow mum mut nab nah nap nay neg nib nip nob noh nor now
nug nut oar obe och ode off oho oil old oms ons oot ops orb org
ose out owl oxo pad pal pap pat pay ped peh per pew pht pie pip
piu pod pol pop pow pry pub pul pur pya qat rad rai ran rat ray
red reg rep rev rho rid rim rob roe rot rue run rye sac sag sap
saw sea seg sen sev sha sho sic sin sis ska sly sod som sos sow
spa sty suk sup syn tae tam tap tat taw tec teg tes the tic tin
tit tod tom top tow tsk tui tup twa udo ulu ums upo urd use uts
var vau vee vex vie vin vog vug wad wan was wax wed wet why wis
woe woo wow wye yag yam yas yea yep yew yob yom yow yup zas zee
zep zip zoo
`)

// DefaultWordsPerLine matches 64 byte lines of three letter words.
const DefaultWordsPerLine = 16

// Lines writes random lines to w until at least size bytes, counting line
// terminators, have been written. Each line holds wordsPerLine random words
// separated by spaces, and each word is title-cased with probability one half.
// It returns the number of bytes written.
func Lines(w io.Writer, size int64, wordsPerLine int, rnd *rand.Rand) (int64, error) {
	if wordsPerLine <= 0 {
		wordsPerLine = DefaultWordsPerLine
	}
	bufWriter := bufio.NewWriter(w)
	caser := cases.Title(language.AmericanEnglish)
	words := make([]string, wordsPerLine)
	var written int64
	for written < size {
		for i := range words {
			words[i] = randomWord(rnd, caser)
		}
		n, err := bufWriter.WriteString(strings.Join(words, " ") + "\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bufWriter.Flush()
}

func randomWord(rnd *rand.Rand, caser cases.Caser) string {
	word := vocabulary[rnd.Intn(len(vocabulary))]
	if rnd.Float64() > 0.5 {
		return caser.String(word)
	}
	return word
}
